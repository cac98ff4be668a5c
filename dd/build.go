package dd

import "math/cmplx"

// GateMatrix is the 2x2 definition of a single-qubit gate.
type GateMatrix [2][2]complex128

var (
	projZero = GateMatrix{{1, 0}, {0, 0}}
	foldRows = GateMatrix{{1, 1}, {0, 0}}
)

// Identity returns the identity operator on all qubits of the package.
func (p *Package) Identity() Edge {
	return p.identUpTo(p.nqubits - 1)
}

func (p *Package) identUpTo(v int) Edge {
	e := p.one()
	for z := 0; z <= v; z++ {
		e = p.makeNode(Matrix, z, [4]Edge{e, p.zero(), p.zero(), e})
	}
	return e
}

// ZeroState returns |0...0> on all qubits of the package.
func (p *Package) ZeroState() Edge {
	return p.BasisState(make([]bool, p.nqubits))
}

// BasisState returns the computational basis state selected by bits, where
// bits[q] is the value of qubit q.
func (p *Package) BasisState(bits []bool) Edge {
	e := p.one()
	for z := 0; z < p.nqubits; z++ {
		var set bool
		if z < len(bits) {
			set = bits[z]
		}
		if set {
			e = p.makeNode(Vector, z, [4]Edge{p.zero(), e})
		} else {
			e = p.makeNode(Vector, z, [4]Edge{e, p.zero()})
		}
	}
	return e
}

// ProductState returns the product state with per-qubit amplitudes
// amps[q] = (alpha, beta) for alpha|0> + beta|1>.
func (p *Package) ProductState(amps [][2]complex128) Edge {
	e := p.one()
	for z := 0; z < p.nqubits; z++ {
		a := [2]complex128{1, 0}
		if z < len(amps) {
			a = amps[z]
		}
		e = p.makeNode(Vector, z, [4]Edge{
			e.scale(a[0]),
			e.scale(a[1]),
		})
	}
	return e
}

// GateDD builds the operator applying the single-qubit gate u to target,
// conditioned on all control qubits being |1>, and the identity elsewhere.
func (p *Package) GateDD(u GateMatrix, target int, controls []int) (Edge, error) {
	if target < 0 || target >= p.nqubits {
		return Edge{}, ErrQubitRange
	}
	ctrl := make(map[int]bool, len(controls))
	for _, c := range controls {
		if c < 0 || c >= p.nqubits {
			return Edge{}, ErrQubitRange
		}
		ctrl[c] = true
	}

	// em tracks, per entry of the effective target matrix, the diagram over
	// the levels processed so far; id tracks the identity over those levels.
	em := [4]Edge{
		p.terminalEdge(u[0][0]),
		p.terminalEdge(u[0][1]),
		p.terminalEdge(u[1][0]),
		p.terminalEdge(u[1][1]),
	}
	id := p.one()
	var f Edge
	placed := false

	for z := 0; z < p.nqubits; z++ {
		switch {
		case z == target:
			f = p.makeNode(Matrix, z, em)
			placed = true
			id = p.makeNode(Matrix, z, [4]Edge{id, p.zero(), p.zero(), id})
		case ctrl[z]:
			if placed {
				f = p.makeNode(Matrix, z, [4]Edge{id, p.zero(), p.zero(), f})
			} else {
				// a control below the target selects the identity on the
				// processed levels for the diagonal entries and nothing at
				// all for the off-diagonal ones
				em[0] = p.makeNode(Matrix, z, [4]Edge{id, p.zero(), p.zero(), em[0]})
				em[3] = p.makeNode(Matrix, z, [4]Edge{id, p.zero(), p.zero(), em[3]})
				em[1] = p.makeNode(Matrix, z, [4]Edge{p.zero(), p.zero(), p.zero(), em[1]})
				em[2] = p.makeNode(Matrix, z, [4]Edge{p.zero(), p.zero(), p.zero(), em[2]})
			}
			id = p.makeNode(Matrix, z, [4]Edge{id, p.zero(), p.zero(), id})
		default:
			if placed {
				f = p.makeNode(Matrix, z, [4]Edge{f, p.zero(), p.zero(), f})
			} else {
				for i := range em {
					em[i] = p.makeNode(Matrix, z, [4]Edge{em[i], p.zero(), p.zero(), em[i]})
				}
			}
			id = p.makeNode(Matrix, z, [4]Edge{id, p.zero(), p.zero(), id})
		}
	}
	return f, nil
}

// PhaseDD returns exp(i·theta) times the identity on all qubits of the
// package.
func (p *Package) PhaseDD(theta float64) Edge {
	e := p.Identity()
	return Edge{P: e.P, W: p.lookup(e.W * cmplx.Exp(complex(0, theta)))}
}

// SwapDD builds the operator exchanging qubits q0 and q1, via the standard
// three-CX decomposition.
func (p *Package) SwapDD(q0, q1 int) (Edge, error) {
	if q0 == q1 {
		return p.Identity(), nil
	}
	x := GateMatrix{{0, 1}, {1, 0}}
	a, err := p.GateDD(x, q1, []int{q0})
	if err != nil {
		return Edge{}, err
	}
	b, err := p.GateDD(x, q0, []int{q1})
	if err != nil {
		return Edge{}, err
	}
	return p.Multiply(a, p.Multiply(b, a)), nil
}

// ReduceAncillae projects the columns of an operator onto |0> inputs for
// every qubit marked ancillary, so that contributions from other initial
// values cannot distinguish two circuits.
func (p *Package) ReduceAncillae(e Edge, ancillary []bool) (Edge, error) {
	for q, anc := range ancillary {
		if !anc {
			continue
		}
		proj, err := p.GateDD(projZero, q, nil)
		if err != nil {
			return Edge{}, err
		}
		e = p.Multiply(e, proj)
	}
	return e, nil
}

// ReduceGarbage folds, for every qubit marked garbage, the output row for
// |1> into the row for |0>, so that circuit-defined but caller-irrelevant
// output values cannot distinguish two circuits.
func (p *Package) ReduceGarbage(e Edge, garbage []bool) (Edge, error) {
	for q, g := range garbage {
		if !g {
			continue
		}
		fold, err := p.GateDD(foldRows, q, nil)
		if err != nil {
			return Edge{}, err
		}
		e = p.Multiply(fold, e)
	}
	return e, nil
}
