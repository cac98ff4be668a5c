package checker

// Criterion is the verdict of an equivalence check.
type Criterion int

const (
	// NoInformation means no checker produced a verdict.
	NoInformation Criterion = iota
	// NotEquivalent is a definitive negative verdict.
	NotEquivalent
	// Equivalent means the circuits realize the same operator.
	Equivalent
	// EquivalentUpToGlobalPhase means the operators differ by a unit
	// scalar factor.
	EquivalentUpToGlobalPhase
	// EquivalentUpToPhase means states produced from random inputs agreed
	// up to phase. Only the simulation checker reports this.
	EquivalentUpToPhase
	// ProbablyEquivalent means all random simulations agreed but no
	// functional checker confirmed equivalence.
	ProbablyEquivalent
	// ProbablyNotEquivalent means a heuristic indicated a difference
	// without constructing a counterexample.
	ProbablyNotEquivalent
)

var criterionNames = map[Criterion]string{
	NoInformation:             "no_information",
	NotEquivalent:             "not_equivalent",
	Equivalent:                "equivalent",
	EquivalentUpToGlobalPhase: "equivalent_up_to_global_phase",
	EquivalentUpToPhase:       "equivalent_up_to_phase",
	ProbablyEquivalent:        "probably_equivalent",
	ProbablyNotEquivalent:     "probably_not_equivalent",
}

func (c Criterion) String() string {
	if s, ok := criterionNames[c]; ok {
		return s
	}
	return "no_information"
}

// ConsideredEquivalent reports whether the verdict counts as a positive
// result.
func (c Criterion) ConsideredEquivalent() bool {
	switch c {
	case Equivalent, EquivalentUpToGlobalPhase, EquivalentUpToPhase, ProbablyEquivalent:
		return true
	}
	return false
}
