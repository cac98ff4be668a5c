package checker

import (
	"go.uber.org/zap"

	"qcheck/checker/task"
	"qcheck/circuit"
	"qcheck/config"
	"qcheck/dd"
	"qcheck/stategen"
)

// Simulation runs both circuits on the same random initial state and compares
// the resulting states. A mismatch proves non-equivalence with the state as a
// counterexample; agreement over many random states is strong probabilistic
// evidence of equivalence. Each Run checks one state, so the checker is meant
// to be invoked repeatedly on the same instance.
type Simulation struct {
	*base
	gen       *stategen.Generator
	ancillary []bool
	initial   dd.Edge
}

func NewSimulation(c1, c2 *circuit.Circuit, cfg config.Config, log *zap.Logger) (*Simulation, error) {
	b, err := newBase("simulation", c1, c2, cfg, log)
	if err != nil {
		return nil, err
	}
	s, err := b.buildScheme(cfg.Application.SimulationScheme, true)
	if err != nil {
		return nil, err
	}
	b.scheme = s

	typ, err := stategen.ParseType(cfg.Simulation.StateType)
	if err != nil {
		return nil, err
	}

	// A qubit that is ancillary in either circuit starts in |0> for both.
	ancillary := make([]bool, c1.Qubits())
	for q := range ancillary {
		ancillary[q] = c1.Ancillary()[q] || c2.Ancillary()[q]
	}

	c := &Simulation{
		base:      b,
		gen:       stategen.New(typ, cfg.Simulation.Seed),
		ancillary: ancillary,
	}
	b.impl = c
	return c, nil
}

// InitialState returns the state the last Run simulated, as a counterexample
// for a negative verdict.
func (c *Simulation) InitialState() dd.Edge { return c.initial }

func (c *Simulation) initialize() error {
	c.base.Reset()

	c.initial = c.gen.Generate(c.pkg, c.ancillary)
	// Keep the initial state alive across the run so it can be reported as
	// a counterexample.
	c.pkg.IncRef(c.initial)
	c.t1.SetInternalState(c.initial)
	c.t2.SetInternalState(c.initial)
	c.t1.IncRef()
	c.t2.IncRef()
	return nil
}

func (c *Simulation) execute() error { return c.executeLoop() }

func (c *Simulation) finish() error {
	if err := c.t1.Finish(); err != nil {
		return err
	}
	return c.t2.Finish()
}

func (c *Simulation) postprocess() error {
	for _, t := range []*task.Task{c.t1, c.t2} {
		if err := t.ChangePermutation(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Simulation) checkEquivalence() (Criterion, error) {
	verdict := c.equals(c.t1.InternalState(), c.t2.InternalState())

	// Release this sample's diagrams so node slots are reclaimed before the
	// next state is drawn.
	c.t1.DecRef()
	c.t2.DecRef()
	c.pkg.DecRef(c.initial)
	c.pkg.GarbageCollect()
	return verdict, nil
}
