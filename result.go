package qcheck

import (
	"time"

	"go.uber.org/zap"

	"qcheck/checker"
)

// CheckerResult is the outcome of a single checker.
type CheckerResult struct {
	Name    string            `json:"name"`
	Verdict checker.Criterion `json:"-"`
	Runtime time.Duration     `json:"runtime"`

	// PeakNodes is the largest node count the checker's diagrams reached.
	PeakNodes int `json:"peakNodes"`

	// Sims counts the random states examined; zero for functional checkers.
	Sims int `json:"sims,omitempty"`

	// VerdictName mirrors Verdict for serialization.
	VerdictName string `json:"verdict"`
}

// Result is the aggregated outcome of a check.
type Result struct {
	Verdict checker.Criterion `json:"-"`
	Runtime time.Duration     `json:"runtime"`

	// VerdictName mirrors Verdict for serialization.
	VerdictName string `json:"verdict"`

	// Checkers lists the per-checker outcomes in completion order.
	Checkers []CheckerResult `json:"checkers"`

	// PerformedSimulations counts the random states the simulation checker
	// actually examined.
	PerformedSimulations int `json:"performedSimulations,omitempty"`

	// Err is the first checker error, only surfaced when no checker
	// produced a verdict.
	Err error `json:"-"`
}

// ConsideredEquivalent reports whether the aggregated verdict counts as a
// positive result.
func (r Result) ConsideredEquivalent() bool { return r.Verdict.ConsideredEquivalent() }

// strength ranks positive verdicts so the most informative one wins the
// aggregation.
func strength(c checker.Criterion) int {
	switch c {
	case checker.Equivalent:
		return 4
	case checker.EquivalentUpToGlobalPhase:
		return 3
	case checker.EquivalentUpToPhase:
		return 2
	case checker.ProbablyEquivalent:
		return 1
	}
	return 0
}

func (r *Result) record(msg verdictMsg, log *zap.Logger) {
	r.Checkers = append(r.Checkers, CheckerResult{
		Name:        msg.name,
		Verdict:     msg.verdict,
		VerdictName: msg.verdict.String(),
		Runtime:     msg.runtime,
		PeakNodes:   msg.peak,
		Sims:        msg.sims,
	})
	r.PerformedSimulations += msg.sims

	if msg.err != nil {
		log.Error("checker failed", zap.String("checker", msg.name), zap.Error(msg.err))
		if r.Verdict == checker.NoInformation && r.Err == nil {
			r.Err = msg.err
		}
		return
	}
	log.Debug("checker finished",
		zap.String("checker", msg.name),
		zap.Stringer("verdict", msg.verdict),
		zap.Duration("runtime", msg.runtime))

	switch {
	case msg.verdict == checker.NotEquivalent:
		r.Verdict = checker.NotEquivalent
	case r.Verdict == checker.NotEquivalent:
		// Settled, a positive verdict cannot override it.
	case strength(msg.verdict) > strength(r.Verdict):
		r.Verdict = msg.verdict
	}
	r.VerdictName = r.Verdict.String()

	if r.Verdict != checker.NoInformation {
		// A verdict exists, so earlier checker errors are moot.
		r.Err = nil
	}
}
