// Package qcheck verifies that two quantum circuits implement the same
// operation. It runs a portfolio of decision diagram based equivalence
// checkers concurrently and combines their verdicts: a single disproving
// checker settles the answer, otherwise the strongest positive verdict wins.
package qcheck

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qcheck/checker"
	"qcheck/circuit"
	"qcheck/config"
)

// ErrNoCheckers is returned when the configuration disables every checker.
var ErrNoCheckers = errors.New("qcheck: no checker enabled")

// Manager owns one equivalence checking problem: a pair of circuits plus the
// configuration describing how to decide it.
type Manager struct {
	c1, c2 *circuit.Circuit
	cfg    config.Config
	log    *zap.Logger
}

// New validates the problem and prepares a manager for it.
func New(c1, c2 *circuit.Circuit, opts ...Option) (*Manager, error) {
	m := &Manager{c1: c1, c2: c2, cfg: config.Default(), log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	if c1.Qubits() != c2.Qubits() {
		return nil, checker.ErrQubitMismatch
	}
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Verify is the one-call entry point: build a manager and run it.
func Verify(c1, c2 *circuit.Circuit, opts ...Option) (Result, error) {
	m, err := New(c1, c2, opts...)
	if err != nil {
		return Result{}, err
	}
	return m.Run()
}

// verdictMsg is what each checker goroutine reports back to the run loop.
type verdictMsg struct {
	name    string
	verdict checker.Criterion
	runtime time.Duration
	peak    int
	sims    int
	err     error
}

// Run executes all enabled checkers concurrently and aggregates their
// verdicts.
func (m *Manager) Run() (Result, error) {
	start := time.Now()

	checkers, sim, err := m.buildCheckers()
	if err != nil {
		return Result{}, err
	}
	if len(checkers) == 0 && sim == nil {
		m.log.Warn("nothing to do", zap.String("verdict", "no_information"))
		return Result{
			Verdict:     checker.NoInformation,
			VerdictName: checker.NoInformation.String(),
			Runtime:     time.Since(start),
		}, nil
	}

	stop := make(chan struct{})
	results := make(chan verdictMsg)

	pending := 0
	for _, c := range checkers {
		c.SetStop(stop)
		pending++
		go runFunctional(c, results)
	}
	if sim != nil {
		sim.SetStop(stop)
		pending++
		go m.runSimulations(sim, stop, results)
	}

	res := m.collect(pending, stop, results)
	res.Runtime = time.Since(start)
	res.VerdictName = res.Verdict.String()
	m.log.Info("check finished",
		zap.Stringer("verdict", res.Verdict),
		zap.Duration("runtime", res.Runtime))
	return res, res.Err
}

func (m *Manager) buildCheckers() ([]checker.Checker, *checker.Simulation, error) {
	var checkers []checker.Checker
	if m.cfg.Execution.RunConstructionChecker {
		c, err := checker.NewConstruction(m.c1, m.c2, m.cfg, m.log)
		if err != nil {
			return nil, nil, err
		}
		checkers = append(checkers, c)
	}
	if m.cfg.Execution.RunAlternatingChecker {
		c, err := checker.NewAlternating(m.c1, m.c2, m.cfg, m.log)
		if err != nil {
			return nil, nil, err
		}
		checkers = append(checkers, c)
	}
	var sim *checker.Simulation
	if m.cfg.Execution.RunSimulationChecker && m.cfg.Simulation.MaxSims > 0 {
		s, err := checker.NewSimulation(m.c1, m.c2, m.cfg, m.log)
		if err != nil {
			return nil, nil, err
		}
		sim = s
	}
	return checkers, sim, nil
}

func runFunctional(c checker.Checker, results chan<- verdictMsg) {
	v, err := c.Run()
	results <- verdictMsg{name: c.Name(), verdict: v, runtime: c.Runtime(), peak: c.PeakNodes(), err: err}
}

// runSimulations keeps drawing random states until one disproves equivalence,
// the budget is exhausted, or a stop is requested. Agreement across the whole
// budget yields a probabilistic positive verdict.
func (m *Manager) runSimulations(sim *checker.Simulation, stop <-chan struct{}, results chan<- verdictMsg) {
	var elapsed time.Duration
	performed := 0
	for i := 0; i < m.cfg.Simulation.MaxSims; i++ {
		select {
		case <-stop:
			results <- verdictMsg{name: sim.Name(), verdict: checker.NoInformation, runtime: elapsed, peak: sim.PeakNodes(), sims: performed}
			return
		default:
		}
		v, err := sim.Run()
		elapsed += sim.Runtime()
		if err != nil {
			results <- verdictMsg{name: sim.Name(), runtime: elapsed, peak: sim.PeakNodes(), sims: performed, err: err}
			return
		}
		if v == checker.NoInformation {
			// Aborted mid-run.
			results <- verdictMsg{name: sim.Name(), verdict: v, runtime: elapsed, peak: sim.PeakNodes(), sims: performed}
			return
		}
		performed++
		if !v.ConsideredEquivalent() {
			results <- verdictMsg{name: sim.Name(), verdict: checker.NotEquivalent, runtime: elapsed, peak: sim.PeakNodes(), sims: performed}
			return
		}
	}
	results <- verdictMsg{name: sim.Name(), verdict: checker.ProbablyEquivalent, runtime: elapsed, peak: sim.PeakNodes(), sims: performed}
}

// collect gathers all verdicts, short-circuiting the remaining checkers once
// the answer is settled or the timeout fires.
func (m *Manager) collect(pending int, stop chan struct{}, results <-chan verdictMsg) Result {
	res := Result{Verdict: checker.NoInformation}
	stopped := false
	halt := func() {
		if !stopped {
			close(stop)
			stopped = true
		}
	}

	var timeout <-chan time.Time
	if d := m.cfg.Execution.Timeout.Std(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		timeout = timer.C
	}

	for pending > 0 {
		select {
		case msg := <-results:
			pending--
			res.record(msg, m.log)
			if res.Verdict == checker.NotEquivalent {
				halt()
			}
		case <-timeout:
			m.log.Warn("timeout reached, aborting remaining checkers")
			halt()
			timeout = nil
		}
	}
	return res
}
