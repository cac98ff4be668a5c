package checker

import (
	"go.uber.org/zap"

	"qcheck/checker/scheme"
	"qcheck/checker/task"
	"qcheck/circuit"
	"qcheck/config"
	"qcheck/dd"
)

// Alternating interleaves operations of the first circuit from the left with
// inverted operations of the second circuit from the right, accumulating
// everything into a single shared diagram. If the circuits are equivalent
// the operations cancel and the diagram stays close to the identity, which
// keeps it small throughout the check.
type Alternating struct {
	*base
	shared *dd.Edge
}

func NewAlternating(c1, c2 *circuit.Circuit, cfg config.Config, log *zap.Logger) (*Alternating, error) {
	b, err := newBase("alternating", c1, c2, cfg, log)
	if err != nil {
		return nil, err
	}
	c := &Alternating{base: b, shared: new(dd.Edge)}
	b.t2.FlipDirection()
	b.t1.BindState(c.shared)
	b.t2.BindState(c.shared)

	s, err := b.buildScheme(cfg.Application.AlternatingScheme, false)
	if err != nil {
		return nil, err
	}
	if la, ok := s.(*scheme.Lookahead); ok {
		la.Bind(c.shared, b.pkg)
	}
	b.scheme = s
	b.impl = c
	return c, nil
}

func (c *Alternating) initialize() error {
	*c.shared = c.pkg.Identity()
	c.pkg.IncRef(*c.shared)
	return nil
}

func (c *Alternating) execute() error { return c.executeLoop() }

func (c *Alternating) finish() error {
	if err := c.t1.Finish(); err != nil {
		return err
	}
	return c.t2.Finish()
}

func (c *Alternating) postprocess() error {
	for _, t := range []*task.Task{c.t1, c.t2} {
		if err := t.ChangePermutation(); err != nil {
			return err
		}
		if err := t.ReduceAncillae(); err != nil {
			return err
		}
		if err := t.ReduceGarbage(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Alternating) checkEquivalence() (Criterion, error) {
	return c.equals(*c.shared, c.pkg.Identity()), nil
}
