package checker

import (
	"go.uber.org/zap"

	"qcheck/checker/task"
	"qcheck/circuit"
	"qcheck/config"
)

// Construction builds one decision diagram per circuit, each starting from
// the identity, and compares the results. It is the most direct functional
// check but also the most memory hungry, since both full operators are held
// at once.
type Construction struct {
	*base
}

func NewConstruction(c1, c2 *circuit.Circuit, cfg config.Config, log *zap.Logger) (*Construction, error) {
	b, err := newBase("construction", c1, c2, cfg, log)
	if err != nil {
		return nil, err
	}
	s, err := b.buildScheme(cfg.Application.ConstructionScheme, false)
	if err != nil {
		return nil, err
	}
	b.scheme = s
	c := &Construction{base: b}
	b.impl = c
	return c, nil
}

func (c *Construction) initialize() error {
	ident := c.pkg.Identity()
	c.t1.SetInternalState(ident)
	c.t2.SetInternalState(ident)
	c.t1.IncRef()
	c.t2.IncRef()
	return nil
}

func (c *Construction) execute() error { return c.executeLoop() }

func (c *Construction) finish() error {
	if err := c.t1.Finish(); err != nil {
		return err
	}
	return c.t2.Finish()
}

func (c *Construction) postprocess() error {
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

func (c *Construction) checkEquivalence() (Criterion, error) {
	return c.equals(c.t1.InternalState(), c.t2.InternalState()), nil
}
