package checker

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"qcheck/checker/scheme"
	"qcheck/circuit"
	"qcheck/config"
)

func bell() *circuit.Circuit {
	c := circuit.New(2)
	c.H(0)
	c.CX(0, 1)
	return c
}

func cfg() config.Config { return config.Default() }

func runChecker(t *testing.T, c Checker, err error) Criterion {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	v, err := c.Run()
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestConstructionEquivalent(t *testing.T) {
	c, err := NewConstruction(bell(), bell(), cfg(), nil)
	if v := runChecker(t, c, err); v != Equivalent {
		t.Errorf("verdict = %v, want equivalent", v)
	}
}

func TestConstructionNotEquivalent(t *testing.T) {
	c2 := circuit.New(2)
	c2.X(0)
	c, err := NewConstruction(bell(), c2, cfg(), nil)
	if v := runChecker(t, c, err); v != NotEquivalent {
		t.Errorf("verdict = %v, want not_equivalent", v)
	}
}

func TestConstructionGlobalPhase(t *testing.T) {
	c2 := bell()
	c2.GlobalPhase(math.Pi / 4)
	c, err := NewConstruction(bell(), c2, cfg(), nil)
	if v := runChecker(t, c, err); v != EquivalentUpToGlobalPhase {
		t.Errorf("verdict = %v, want equivalent_up_to_global_phase", v)
	}
}

func TestConstructionDifferentGateSet(t *testing.T) {
	// HXH = Z, realized with different gates on both sides
	c1 := circuit.New(1)
	c1.H(0)
	c1.X(0)
	c1.H(0)
	c2 := circuit.New(1)
	c2.Z(0)
	c, err := NewConstruction(c1, c2, cfg(), nil)
	if v := runChecker(t, c, err); !v.ConsideredEquivalent() {
		t.Errorf("verdict = %v, want a positive verdict", v)
	}
}

func TestConstructionOutputPermutation(t *testing.T) {
	// a physical swap with a matching declared output permutation equals
	// the empty circuit
	c1 := circuit.New(2)
	c1.Swap(0, 1)
	if err := c1.SetOutputPermutation([]int{1, 0}); err != nil {
		t.Fatal(err)
	}
	c2 := circuit.New(2)
	c2.Id(0)
	c, err := NewConstruction(c1, c2, cfg(), nil)
	if v := runChecker(t, c, err); v != Equivalent {
		t.Errorf("verdict = %v, want equivalent", v)
	}
}

func TestConstructionGarbageInvariance(t *testing.T) {
	// the circuits differ only on a garbage output
	c1 := circuit.New(2)
	c1.X(1)
	c1.SetGarbage(1)
	c2 := circuit.New(2)
	c2.Id(0)
	c2.SetGarbage(1)
	c, err := NewConstruction(c1, c2, cfg(), nil)
	if v := runChecker(t, c, err); !v.ConsideredEquivalent() {
		t.Errorf("verdict = %v, want a positive verdict", v)
	}
}

func TestAlternatingEquivalent(t *testing.T) {
	c, err := NewAlternating(bell(), bell(), cfg(), nil)
	if v := runChecker(t, c, err); v != Equivalent {
		t.Errorf("verdict = %v, want equivalent", v)
	}
}

func TestAlternatingNotEquivalent(t *testing.T) {
	c1 := circuit.New(1)
	c1.X(0)
	c2 := circuit.New(1)
	c2.Z(0)
	c, err := NewAlternating(c1, c2, cfg(), nil)
	if v := runChecker(t, c, err); v != NotEquivalent {
		t.Errorf("verdict = %v, want not_equivalent", v)
	}
}

func TestAlternatingLookahead(t *testing.T) {
	conf := cfg()
	conf.Application.AlternatingScheme = scheme.NameLookahead
	c, err := NewAlternating(bell(), bell(), conf, nil)
	if v := runChecker(t, c, err); v != Equivalent {
		t.Errorf("verdict = %v, want equivalent", v)
	}
}

func TestAlternatingLookaheadUnevenLengths(t *testing.T) {
	c1 := circuit.New(1)
	c1.H(0)
	c1.X(0)
	c1.H(0)
	c2 := circuit.New(1)
	c2.Z(0)
	conf := cfg()
	conf.Application.AlternatingScheme = scheme.NameLookahead
	c, err := NewAlternating(c1, c2, conf, nil)
	if v := runChecker(t, c, err); !v.ConsideredEquivalent() {
		t.Errorf("verdict = %v, want a positive verdict", v)
	}
}

func TestAlternatingGateCost(t *testing.T) {
	conf := cfg()
	conf.Application.AlternatingScheme = scheme.NameGateCost
	conf.Application.CostFunction = func(op circuit.Operation) int {
		return 1 + len(op.Controls)
	}
	c, err := NewAlternating(bell(), bell(), conf, nil)
	if v := runChecker(t, c, err); v != Equivalent {
		t.Errorf("verdict = %v, want equivalent", v)
	}
}

func TestGateCostWithoutSource(t *testing.T) {
	conf := cfg()
	conf.Application.AlternatingScheme = scheme.NameGateCost
	if _, err := NewAlternating(bell(), bell(), conf, nil); !errors.Is(err, scheme.ErrNoCostSource) {
		t.Errorf("err = %v, want ErrNoCostSource", err)
	}
}

func TestLookaheadRejectedForSimulation(t *testing.T) {
	conf := cfg()
	conf.Application.SimulationScheme = scheme.NameLookahead
	if _, err := NewSimulation(bell(), bell(), conf, nil); !errors.Is(err, scheme.ErrLookaheadKind) {
		t.Errorf("err = %v, want ErrLookaheadKind", err)
	}
}

func TestQubitMismatch(t *testing.T) {
	c1 := circuit.New(1)
	c2 := circuit.New(2)
	if _, err := NewConstruction(c1, c2, cfg(), nil); !errors.Is(err, ErrQubitMismatch) {
		t.Errorf("err = %v, want ErrQubitMismatch", err)
	}
}

func TestSimulationEquivalent(t *testing.T) {
	conf := cfg()
	conf.Simulation.Seed = 7
	c, err := NewSimulation(bell(), bell(), conf, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		v, err := c.Run()
		if err != nil {
			t.Fatal(err)
		}
		if v != Equivalent {
			t.Fatalf("run %d: verdict = %v, want equivalent", i, v)
		}
	}
}

func TestSimulationDisproves(t *testing.T) {
	c1 := circuit.New(1)
	c1.X(0)
	c2 := circuit.New(1)
	c2.Id(0)
	conf := cfg()
	conf.Simulation.Seed = 7
	c, err := NewSimulation(c1, c2, conf, nil)
	if v := runChecker(t, c, err); v != NotEquivalent {
		t.Errorf("verdict = %v, want not_equivalent", v)
	}
}

func TestSimulationGlobalPhase(t *testing.T) {
	c1 := circuit.New(1)
	c1.X(0)
	c2 := circuit.New(1)
	c2.X(0)
	c2.GlobalPhase(math.Pi / 2)
	conf := cfg()
	conf.Simulation.Seed = 7
	c, err := NewSimulation(c1, c2, conf, nil)
	if v := runChecker(t, c, err); v != EquivalentUpToPhase {
		t.Errorf("verdict = %v, want equivalent_up_to_phase", v)
	}
}

func TestSimulationTinyDriftIsEquivalent(t *testing.T) {
	// 1 - cos(eps/2) ~ 4e-9: within the fidelity threshold, but well
	// beyond the weight canonicalization tolerance
	const eps = 1.8e-4
	c1 := circuit.New(1)
	c1.Id(0)
	c2 := circuit.New(1)
	c2.RY(eps, 0)
	conf := cfg()
	conf.Simulation.Seed = 7
	c, err := NewSimulation(c1, c2, conf, nil)
	if v := runChecker(t, c, err); v != Equivalent {
		t.Errorf("verdict = %v, want equivalent", v)
	}
}

func TestSimulationAncillaStaysZero(t *testing.T) {
	// circuits act on the data qubit only; the ancilla must start in |0>
	// on both sides regardless of the drawn random state
	c1 := circuit.New(2)
	c1.H(0)
	c1.SetAncillary(1)
	c2 := circuit.New(2)
	c2.H(0)
	c2.SetAncillary(1)
	conf := cfg()
	conf.Simulation.Seed = 3
	conf.Simulation.StateType = config.StateOneQubitBasis
	c, err := NewSimulation(c1, c2, conf, nil)
	if v := runChecker(t, c, err); v != Equivalent {
		t.Errorf("verdict = %v, want equivalent", v)
	}
}

func TestConfiguredToleranceReachesPackage(t *testing.T) {
	conf := cfg()
	conf.Execution.NumericalTolerance = 1e-3
	b, err := newBase("construction", bell(), bell(), conf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.pkg.Tolerance() != 1e-3 {
		t.Errorf("package tolerance = %v, want 1e-3", b.pkg.Tolerance())
	}
}

func TestCheckerRuntimeRecorded(t *testing.T) {
	c, err := NewConstruction(bell(), bell(), cfg(), nil)
	runChecker(t, c, err)
	if c.Runtime() <= 0 {
		t.Error("runtime should be positive after a run")
	}
}
