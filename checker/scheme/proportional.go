package scheme

import (
	"math"

	"qcheck/checker/task"
)

// Proportional batches operations of the longer circuit so that both tasks
// reach their end after roughly the same number of comparison points,
// regardless of how different the circuits' gate counts are.
type Proportional struct {
	first, second int
}

// NewProportional derives the per-step counts from the two tasks' total
// operation counts.
func NewProportional(t1, t2 *task.Task) *Proportional {
	n1 := t1.Circuit().NumOps()
	n2 := t2.Circuit().NumOps()
	s := &Proportional{first: 1, second: 1}
	switch {
	case n1 == 0 || n2 == 0:
		// nothing to balance, the execute loop stops immediately anyway
	case n1 >= n2:
		s.first = ratio(n1, n2)
	default:
		s.second = ratio(n2, n1)
	}
	return s
}

func ratio(larger, smaller int) int {
	r := int(math.Round(float64(larger) / float64(smaller)))
	if r < 1 {
		return 1
	}
	return r
}

func (s *Proportional) Apply() (int, int, error) { return s.first, s.second, nil }
