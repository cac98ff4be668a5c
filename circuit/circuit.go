package circuit

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Operation is one element of a circuit's operation sequence.
type Operation struct {
	Gate     Gate
	Targets  []int // two entries for SWAP, one otherwise, none for GPhase
	Controls []int
	Params   []float64
}

// IsSwap reports whether the operation is a pure qubit relabeling: an
// uncontrolled SWAP. Such operations are consumed by updating the tracked
// permutation instead of multiplying anything into a representation.
func (o Operation) IsSwap() bool {
	return o.Gate == SWAP && len(o.Controls) == 0
}

// IsUnitary reports whether the operation contributes to the functionality
// of the circuit. Measurements and barriers do not.
func (o Operation) IsUnitary() bool {
	return o.Gate != Measure && o.Gate != Barrier
}

// IsDiagonal reports whether the operation's matrix is diagonal in the
// computational basis. Controls preserve diagonality.
func (o Operation) IsDiagonal() bool {
	switch o.Gate {
	case I, Z, S, Sdg, T, Tdg, RZ, Phase, GPhase:
		return true
	}
	return false
}

// Inverse returns the adjoint operation.
func (o Operation) Inverse() Operation {
	inv := Operation{
		Gate:     inverse[o.Gate],
		Targets:  o.Targets,
		Controls: o.Controls,
	}
	if len(o.Params) > 0 {
		inv.Params = make([]float64, len(o.Params))
		for i, p := range o.Params {
			inv.Params[i] = -p
		}
	}
	return inv
}

// Theta returns the first parameter, or zero when there is none.
func (o Operation) Theta() float64 {
	if len(o.Params) > 0 {
		return o.Params[0]
	}
	return 0
}

func (o Operation) String() string {
	var b strings.Builder
	b.WriteString(o.Gate.String())
	for range o.Controls {
		b.WriteString(" c")
	}
	for _, t := range o.Targets {
		fmt.Fprintf(&b, " %d", t)
	}
	return b.String()
}

// Circuit is an ordered sequence of operations over a fixed qubit register,
// together with the declared output permutation and the ancillary/garbage
// markings that postprocessing consults.
type Circuit struct {
	nqubits   int
	ops       []Operation
	outPerm   []int
	ancillary []bool
	garbage   []bool
}

// New creates an empty circuit over nqubits qubits with the identity output
// permutation and no ancillary or garbage qubits.
func New(nqubits int) *Circuit {
	perm := make([]int, nqubits)
	for i := range perm {
		perm[i] = i
	}
	return &Circuit{
		nqubits:   nqubits,
		outPerm:   perm,
		ancillary: make([]bool, nqubits),
		garbage:   make([]bool, nqubits),
	}
}

func (c *Circuit) Qubits() int             { return c.nqubits }
func (c *Circuit) NumOps() int             { return len(c.ops) }
func (c *Circuit) Op(i int) Operation      { return c.ops[i] }
func (c *Circuit) Operations() []Operation { return c.ops }

// Ancillary returns the per-qubit ancillary markings.
func (c *Circuit) Ancillary() []bool { return c.ancillary }

// Garbage returns the per-qubit garbage markings.
func (c *Circuit) Garbage() []bool { return c.garbage }

// OutputPermutation returns the declared mapping from logical qubits to the
// positions they occupy at the end of the circuit.
func (c *Circuit) OutputPermutation() []int { return c.outPerm }

// SetOutputPermutation declares where each logical qubit ends up. perm must
// be a permutation of [0, nqubits).
func (c *Circuit) SetOutputPermutation(perm []int) error {
	if len(perm) != c.nqubits {
		return errors.Errorf("circuit: output permutation has %d entries, want %d", len(perm), c.nqubits)
	}
	for q := 0; q < c.nqubits; q++ {
		if !slices.Contains(perm, q) {
			return errors.Errorf("circuit: output permutation is missing qubit %d", q)
		}
	}
	c.outPerm = slices.Clone(perm)
	return nil
}

// SetAncillary marks a qubit as an ancilla: its initial value is fixed by the
// circuit and irrelevant to the caller.
func (c *Circuit) SetAncillary(q int) { c.ancillary[q] = true }

// SetGarbage marks a qubit's output as garbage: circuit-defined but not
// semantically meaningful to the caller.
func (c *Circuit) SetGarbage(q int) { c.garbage[q] = true }

// Apply appends an operation after validating its qubit indices.
func (c *Circuit) Apply(op Operation) error {
	for _, q := range append(slices.Clone(op.Targets), op.Controls...) {
		if q < 0 || q >= c.nqubits {
			return errors.Errorf("circuit: qubit %d out of range [0, %d)", q, c.nqubits)
		}
	}
	for _, ctl := range op.Controls {
		if slices.Contains(op.Targets, ctl) {
			return errors.Errorf("circuit: qubit %d is both control and target", ctl)
		}
	}
	c.ops = append(c.ops, op)
	return nil
}

func (c *Circuit) mustApply(op Operation) {
	if err := c.Apply(op); err != nil {
		panic(err)
	}
}

func (c *Circuit) Id(t int)      { c.mustApply(Operation{Gate: I, Targets: []int{t}}) }
func (c *Circuit) X(t int)       { c.mustApply(Operation{Gate: X, Targets: []int{t}}) }
func (c *Circuit) Y(t int)       { c.mustApply(Operation{Gate: Y, Targets: []int{t}}) }
func (c *Circuit) Z(t int)       { c.mustApply(Operation{Gate: Z, Targets: []int{t}}) }
func (c *Circuit) H(t int)       { c.mustApply(Operation{Gate: H, Targets: []int{t}}) }
func (c *Circuit) S(t int)       { c.mustApply(Operation{Gate: S, Targets: []int{t}}) }
func (c *Circuit) T(t int)       { c.mustApply(Operation{Gate: T, Targets: []int{t}}) }
func (c *Circuit) Measure(t int) { c.mustApply(Operation{Gate: Measure, Targets: []int{t}}) }

func (c *Circuit) CX(ctrl, t int) {
	c.mustApply(Operation{Gate: X, Targets: []int{t}, Controls: []int{ctrl}})
}

func (c *Circuit) CZ(ctrl, t int) {
	c.mustApply(Operation{Gate: Z, Targets: []int{t}, Controls: []int{ctrl}})
}

func (c *Circuit) Swap(a, b int) {
	c.mustApply(Operation{Gate: SWAP, Targets: []int{a, b}})
}

func (c *Circuit) RX(theta float64, t int) {
	c.mustApply(Operation{Gate: RX, Targets: []int{t}, Params: []float64{theta}})
}

func (c *Circuit) RY(theta float64, t int) {
	c.mustApply(Operation{Gate: RY, Targets: []int{t}, Params: []float64{theta}})
}

func (c *Circuit) RZ(theta float64, t int) {
	c.mustApply(Operation{Gate: RZ, Targets: []int{t}, Params: []float64{theta}})
}

func (c *Circuit) Phase(theta float64, t int) {
	c.mustApply(Operation{Gate: Phase, Targets: []int{t}, Params: []float64{theta}})
}

// GlobalPhase appends a global phase contribution of exp(i·theta).
func (c *Circuit) GlobalPhase(theta float64) {
	c.mustApply(Operation{Gate: GPhase, Params: []float64{theta}})
}
