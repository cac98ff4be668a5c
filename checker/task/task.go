// Package task tracks the traversal progress of one circuit while it is
// folded into a canonical decision diagram representation.
package task

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"qcheck/circuit"
	"qcheck/dd"
)

// Direction states from which side the task's operations are multiplied into
// the representation. Left is the usual forward application; Right folds the
// inverse of each operation from the opposite side, which is what lets two
// equivalent circuits cancel toward the identity in the alternating checker.
type Direction uint8

const (
	Left Direction = iota
	Right
)

// Task wraps one circuit and drives a decision diagram representation
// forward through its operation sequence.
type Task struct {
	circ *circuit.Circuit
	pkg  *dd.Package

	dir Direction
	pos int // operations consumed so far

	// perm maps circuit qubits to the representation level they currently
	// occupy. Pure relabelings (uncontrolled swaps) are consumed by updating
	// perm instead of multiplying anything.
	perm []int

	// state points at the accumulated representation. By default each task
	// owns its own edge; BindState lets the alternating checker share one
	// edge between both tasks and the lookahead scheme.
	state *dd.Edge
}

// New creates a forward task over circ whose representation lives in pkg.
func New(circ *circuit.Circuit, pkg *dd.Package) *Task {
	t := &Task{
		circ:  circ,
		pkg:   pkg,
		perm:  identityPerm(pkg.Qubits()),
		state: new(dd.Edge),
	}
	return t
}

func identityPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// FlipDirection turns the task into a right-sided one: the inverse of each
// operation is folded in from the right, so that walking the circuit forward
// accumulates the adjoint of its operator. Must be called before any
// operation has been consumed.
func (t *Task) FlipDirection() {
	t.dir = Right
}

// Reset rewinds the cursor and restores the initial permutation so the task
// can consume its circuit again. The representation edge is left untouched.
func (t *Task) Reset() {
	t.pos = 0
	t.perm = identityPerm(t.pkg.Qubits())
}

func (t *Task) outputPerm() []int {
	p := identityPerm(t.pkg.Qubits())
	for q, target := range t.circ.OutputPermutation() {
		p[q] = target
	}
	return p
}

// Circuit returns the wrapped circuit.
func (t *Task) Circuit() *circuit.Circuit { return t.circ }

// Package returns the decision diagram package the task operates on.
func (t *Task) Package() *dd.Package { return t.pkg }

// Direction returns the side the task applies its operations from.
func (t *Task) Direction() Direction { return t.dir }

// Finished reports whether the cursor has consumed all operations.
func (t *Task) Finished() bool { return t.pos >= t.circ.NumOps() }

// Remaining returns the number of operations not yet consumed.
func (t *Task) Remaining() int { return t.circ.NumOps() - t.pos }

func (t *Task) next() circuit.Operation {
	return t.circ.Op(t.pos)
}

// Pending returns the operation under the cursor without consuming it.
// Must not be called on a finished task.
func (t *Task) Pending() circuit.Operation { return t.next() }

// SetInternalState overwrites the accumulated representation. The caller is
// responsible for the reference count of the new edge.
func (t *Task) SetInternalState(e dd.Edge) { *t.state = e }

// InternalState returns the accumulated representation.
func (t *Task) InternalState() dd.Edge { return *t.state }

// BindState makes the task mutate e instead of its own edge, sharing the
// representation with whoever else holds the pointer.
func (t *Task) BindState(e *dd.Edge) { t.state = e }

// IncRef increments the reference count of the current representation.
func (t *Task) IncRef() { t.pkg.IncRef(*t.state) }

// DecRef decrements the reference count of the current representation.
func (t *Task) DecRef() { t.pkg.DecRef(*t.state) }

// ApplySwapOperations consumes all immediately pending pure relabelings by
// updating the tracked permutation. It must run before every scheduling
// decision so relabelings never count as schedulable work.
func (t *Task) ApplySwapOperations() {
	for !t.Finished() {
		op := t.next()
		if !op.IsSwap() {
			return
		}
		a, b := op.Targets[0], op.Targets[1]
		t.perm[a], t.perm[b] = t.perm[b], t.perm[a]
		t.pos++
	}
}

// Advance folds the next count operations into the representation. It stops
// silently when the circuit is exhausted.
func (t *Task) Advance(count int) error {
	for i := 0; i < count && !t.Finished(); i++ {
		if err := t.applyNext(); err != nil {
			return err
		}
	}
	return nil
}

// Finish folds all remaining operations into the representation.
func (t *Task) Finish() error {
	return t.Advance(t.Remaining())
}

// AdvanceCursor consumes the next operation without touching the
// representation. Used by schemes that perform the multiplication
// themselves.
func (t *Task) AdvanceCursor() { t.pos++ }

func (t *Task) applyNext() error {
	op := t.next()
	t.pos++
	if !op.IsUnitary() {
		return nil
	}
	g, err := t.gateDD(op, t.dir == Right)
	if err != nil {
		return err
	}
	t.applyTo(t.state, g)
	return nil
}

// applyTo multiplies g into the shared or owned representation from the
// task's side, keeping the reference counts of the superseded edge in order:
// the new edge is referenced before the old one is released.
func (t *Task) applyTo(state *dd.Edge, g dd.Edge) {
	saved := *state
	if t.dir == Left {
		*state = t.pkg.Multiply(g, saved)
	} else {
		*state = t.pkg.Multiply(saved, g)
	}
	t.pkg.IncRef(*state)
	t.pkg.DecRef(saved)
	t.pkg.GarbageCollect()
}

// GateDD returns the diagram of the next pending operation, with its qubits
// mapped through the tracked permutation.
func (t *Task) GateDD() (dd.Edge, error) {
	return t.gateDD(t.next(), false)
}

// InverseGateDD returns the diagram of the inverse of the next pending
// operation, for application from the opposite side.
func (t *Task) InverseGateDD() (dd.Edge, error) {
	return t.gateDD(t.next(), true)
}

func (t *Task) gateDD(op circuit.Operation, inverted bool) (dd.Edge, error) {
	if !op.IsUnitary() {
		return t.pkg.Identity(), nil
	}
	if inverted {
		op = op.Inverse()
	}
	switch {
	case op.Gate == circuit.GPhase:
		return t.pkg.PhaseDD(op.Theta()), nil
	case op.Gate == circuit.SWAP:
		swap, err := t.pkg.SwapDD(t.perm[op.Targets[0]], t.perm[op.Targets[1]])
		return swap, errors.Wrap(err, "task: swap operation")
	default:
		controls := make([]int, len(op.Controls))
		for i, c := range op.Controls {
			controls[i] = t.perm[c]
		}
		g, err := t.pkg.GateDD(dd.GateMatrix(op.Gate.Matrix(op.Theta())), t.perm[op.Targets[0]], controls)
		return g, errors.Wrap(err, "task: gate operation")
	}
}

// ChangePermutation reconciles the tracked permutation with the circuit's
// declared output permutation by folding compensating relabelings into the
// representation. It must run exactly once, after all operations have been
// consumed and before any comparison.
func (t *Task) ChangePermutation() error {
	goal := t.outputPerm()
	for i := range t.perm {
		if t.perm[i] == goal[i] {
			continue
		}
		j := slices.Index(t.perm, goal[i])
		if j < 0 {
			return errors.Errorf("task: level %d unreachable in permutation %v", goal[i], t.perm)
		}
		swap, err := t.pkg.SwapDD(t.perm[i], t.perm[j])
		if err != nil {
			return err
		}
		t.applyTo(t.state, swap)
		t.perm[i], t.perm[j] = t.perm[j], t.perm[i]
	}
	return nil
}

// ReduceAncillae collapses the representation columns that correspond to
// ancilla inputs other than |0>. It only has an effect on matrix-typed
// representations.
func (t *Task) ReduceAncillae() error {
	if t.vectorState() {
		return nil
	}
	reduced, err := t.pkg.ReduceAncillae(*t.state, t.circ.Ancillary())
	if err != nil {
		return err
	}
	t.replaceState(reduced)
	return nil
}

// ReduceGarbage folds together the representation rows of every garbage
// output, so the circuit-defined but caller-irrelevant values cannot
// distinguish two circuits. Vector-typed representations are unaffected.
func (t *Task) ReduceGarbage() error {
	if t.vectorState() {
		return nil
	}
	reduced, err := t.pkg.ReduceGarbage(*t.state, t.garbageLevels())
	if err != nil {
		return err
	}
	t.replaceState(reduced)
	return nil
}

func (t *Task) garbageLevels() []bool {
	levels := make([]bool, t.pkg.Qubits())
	perm := t.outputPerm()
	for q, g := range t.circ.Garbage() {
		if g {
			levels[perm[q]] = true
		}
	}
	return levels
}

func (t *Task) vectorState() bool {
	return t.state.P != nil && !t.state.IsMatrixKind()
}

func (t *Task) replaceState(e dd.Edge) {
	saved := *t.state
	*t.state = e
	t.pkg.IncRef(*t.state)
	t.pkg.DecRef(saved)
	t.pkg.GarbageCollect()
}
