package scheme

import (
	"qcheck/checker/task"
	"qcheck/dd"
)

// Lookahead speculatively builds both candidate successor representations and
// commits the one with the smaller node count. The uncommitted operation stays
// cached for the next round, so each operation's decision diagram is built at
// most once. The scheme drives the cursors itself and therefore always reports
// zero advances to the caller.
type Lookahead struct {
	t1, t2 *task.Task

	state *dd.Edge
	pkg   *dd.Package

	op1, op2         dd.Edge
	cached1, cached2 bool
}

func NewLookahead(t1, t2 *task.Task) *Lookahead {
	return &Lookahead{t1: t1, t2: t2}
}

// Bind attaches the shared representation the scheme mutates. Must be called
// before Apply.
func (s *Lookahead) Bind(state *dd.Edge, pkg *dd.Package) {
	s.state = state
	s.pkg = pkg
}

// Cached reports which sides currently hold a cached, uncommitted operation.
func (s *Lookahead) Cached() (bool, bool) {
	return s.cached1, s.cached2
}

func (s *Lookahead) Apply() (int, int, error) {
	if s.state == nil || s.pkg == nil {
		return 0, 0, ErrLookaheadUnbound
	}
	if !s.cached1 {
		g, err := s.t1.GateDD()
		if err != nil {
			return 0, 0, err
		}
		s.op1 = g
		s.pkg.IncRef(s.op1)
		s.cached1 = true
	}
	if !s.cached2 {
		g, err := s.t2.InverseGateDD()
		if err != nil {
			return 0, 0, err
		}
		s.op2 = g
		s.pkg.IncRef(s.op2)
		s.cached2 = true
	}

	saved := *s.state
	left := s.pkg.Multiply(s.op1, saved)
	right := s.pkg.Multiply(saved, s.op2)

	// Ties favor the first circuit.
	if s.pkg.Size(left) <= s.pkg.Size(right) {
		s.commit(left, saved, &s.op1, &s.cached1)
		s.t1.AdvanceCursor()
		if s.t1.Finished() {
			s.flush(&s.op2, &s.cached2, s.t2, false)
		}
	} else {
		s.commit(right, saved, &s.op2, &s.cached2)
		s.t2.AdvanceCursor()
		if s.t2.Finished() {
			s.flush(&s.op1, &s.cached1, s.t1, true)
		}
	}
	return 0, 0, nil
}

func (s *Lookahead) commit(next, saved dd.Edge, op *dd.Edge, cached *bool) {
	*s.state = next
	s.pkg.IncRef(*s.state)
	s.pkg.DecRef(saved)
	s.pkg.DecRef(*op)
	*cached = false
	s.pkg.GarbageCollect()
}

// flush applies a still-cached operation of the other side once its partner
// has finished, so no sampled operation is dropped before postprocessing.
func (s *Lookahead) flush(op *dd.Edge, cached *bool, t *task.Task, fromLeft bool) {
	if !*cached {
		return
	}
	saved := *s.state
	if fromLeft {
		*s.state = s.pkg.Multiply(*op, saved)
	} else {
		*s.state = s.pkg.Multiply(saved, *op)
	}
	s.commit(*s.state, saved, op, cached)
	t.AdvanceCursor()
}
