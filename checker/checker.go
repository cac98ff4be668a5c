// Package checker implements the equivalence checkers. Each checker drives
// two tasks, one per circuit, through the phases initialize, execute, finish
// and postprocess, and then classifies the accumulated representations.
package checker

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qcheck/checker/scheme"
	"qcheck/checker/task"
	"qcheck/circuit"
	"qcheck/config"
	"qcheck/dd"
)

// ErrQubitMismatch is returned when the two circuits act on different
// numbers of qubits.
var ErrQubitMismatch = errors.New("checker: circuits act on different numbers of qubits")

// Checker is one equivalence checking strategy.
type Checker interface {
	// Run performs the check and returns the verdict. The simulation
	// checker checks a single random state per call and may be run
	// repeatedly.
	Run() (Criterion, error)

	// Name identifies the checker in logs and results.
	Name() string

	// Runtime reports the duration of the last Run.
	Runtime() time.Duration

	// PeakNodes reports the largest node count the checker's diagrams
	// reached so far.
	PeakNodes() int

	// Reset rewinds both tasks so the checker can run again from scratch.
	Reset()

	// SetStop installs a channel that aborts the execute phase early when
	// closed. An aborted run reports NoInformation.
	SetStop(stop <-chan struct{})
}

// phases is implemented by each concrete checker.
type phases interface {
	initialize() error
	execute() error
	finish() error
	postprocess() error
	checkEquivalence() (Criterion, error)
}

// base carries the state shared by all checkers and drives the phases.
type base struct {
	impl phases
	name string

	pkg    *dd.Package
	t1, t2 *task.Task
	scheme scheme.ApplicationScheme
	cfg    config.Config
	log    *zap.Logger

	stop    <-chan struct{}
	runtime time.Duration
}

func newBase(name string, c1, c2 *circuit.Circuit, cfg config.Config, log *zap.Logger) (*base, error) {
	if c1.Qubits() != c2.Qubits() {
		return nil, ErrQubitMismatch
	}
	if log == nil {
		log = zap.NewNop()
	}
	pkg := dd.NewWithTolerance(c1.Qubits(), cfg.Execution.NumericalTolerance)
	return &base{
		name: name,
		pkg:  pkg,
		t1:   task.New(c1, pkg),
		t2:   task.New(c2, pkg),
		cfg:  cfg,
		log:  log.With(zap.String("checker", name)),
	}, nil
}

func (b *base) Name() string           { return b.name }
func (b *base) Runtime() time.Duration { return b.runtime }
func (b *base) PeakNodes() int         { return b.pkg.PeakNodes() }

func (b *base) Reset() {
	b.t1.Reset()
	b.t2.Reset()
}

func (b *base) SetStop(stop <-chan struct{}) { b.stop = stop }

func (b *base) stopped() bool {
	select {
	case <-b.stop:
		return true
	default:
		return false
	}
}

// Run drives the phases in order and times them.
func (b *base) Run() (Criterion, error) {
	start := time.Now()
	defer func() { b.runtime = time.Since(start) }()

	if err := b.impl.initialize(); err != nil {
		return NoInformation, err
	}
	if err := b.impl.execute(); err != nil {
		return NoInformation, err
	}
	if b.stopped() {
		b.log.Debug("run aborted during execution")
		return NoInformation, nil
	}
	if err := b.impl.finish(); err != nil {
		return NoInformation, err
	}
	if err := b.impl.postprocess(); err != nil {
		return NoInformation, err
	}
	verdict, err := b.impl.checkEquivalence()
	if err != nil {
		return NoInformation, err
	}
	b.log.Debug("run finished",
		zap.Stringer("verdict", verdict),
		zap.Int("peakNodes", b.pkg.PeakNodes()))
	return verdict, nil
}

// executeLoop alternately consumes operations from both tasks as dictated by
// the application scheme, until one side runs out or a stop is requested.
func (b *base) executeLoop() error {
	for !b.t1.Finished() && !b.t2.Finished() {
		if b.stopped() {
			return nil
		}
		b.t1.ApplySwapOperations()
		b.t2.ApplySwapOperations()
		if b.t1.Finished() || b.t2.Finished() {
			break
		}
		n1, n2, err := b.scheme.Apply()
		if err != nil {
			return err
		}
		if err := b.t1.Advance(n1); err != nil {
			return err
		}
		if err := b.t2.Advance(n2); err != nil {
			return err
		}
	}
	return nil
}

// equals classifies the relation between two accumulated representations.
func (b *base) equals(e, f dd.Edge) Criterion {
	if e.P == f.P {
		if dd.WeightsClose(e.W, f.W) {
			return Equivalent
		}
		return EquivalentUpToGlobalPhase
	}

	if e.IsMatrixKind() || f.IsMatrixKind() {
		// Structurally different diagrams can still be numerically
		// close. Check whether e composed with the inverse of f stays
		// near the identity.
		g := b.pkg.Multiply(e, b.pkg.ConjugateTranspose(f))
		if b.pkg.IsCloseToIdentity(g, b.cfg.Functionality.TraceThreshold) {
			if dd.WeightsClose(g.W, 1) {
				return Equivalent
			}
			return EquivalentUpToGlobalPhase
		}
		return NotEquivalent
	}

	ip := b.pkg.InnerProduct(e, f)
	if real(ip)*real(ip)+imag(ip)*imag(ip) >= 1-b.cfg.Simulation.FidelityThreshold {
		if math.Abs(real(ip)-1) < b.cfg.Simulation.FidelityThreshold {
			return Equivalent
		}
		return EquivalentUpToPhase
	}
	return NotEquivalent
}

// buildScheme instantiates the named application scheme for the two tasks.
// The lookahead scheme compares candidate operator sizes and is rejected for
// vector representations.
func (b *base) buildScheme(name string, vector bool) (scheme.ApplicationScheme, error) {
	switch name {
	case "", scheme.NameProportional:
		return scheme.NewProportional(b.t1, b.t2), nil
	case scheme.NameOneToOne:
		return scheme.NewOneToOne(), nil
	case scheme.NameLookahead:
		if vector {
			return nil, scheme.ErrLookaheadKind
		}
		return scheme.NewLookahead(b.t1, b.t2), nil
	case scheme.NameGateCost:
		if b.cfg.Application.CostFunction != nil {
			return scheme.NewGateCost(b.t1, b.t2, scheme.CostFunc(b.cfg.Application.CostFunction))
		}
		return scheme.NewGateCostFromProfile(b.t1, b.t2, b.cfg.Application.ProfileLocation)
	default:
		return nil, errors.Wrapf(scheme.ErrUnknownScheme, "%q", name)
	}
}
