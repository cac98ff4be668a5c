package dd

import (
	"math"
	"math/cmplx"
)

type mulKey struct{ a, b *Node }

type addKey struct {
	a, b   *Node
	wa, wb complex128
}

type ipKey struct{ a, b *Node }

// Multiply returns a·b. The left operand must be matrix-typed; the result is
// vector- or matrix-typed depending on the right operand. Both operands must
// stem from this package and span the same levels.
func (p *Package) Multiply(a, b Edge) Edge {
	if a.W == 0 || b.W == 0 {
		return p.zero()
	}
	r := p.mulNode(a.P, b.P)
	return Edge{P: r.P, W: p.lookup(a.W * b.W * r.W)}
}

func (p *Package) mulNode(a, b *Node) Edge {
	if a.v < 0 && b.v < 0 {
		return p.one()
	}
	if a.ident && a.v == b.v {
		return Edge{P: b, W: 1}
	}
	if b.kind == Matrix && b.ident && b.v == a.v {
		return Edge{P: a, W: 1}
	}
	key := mulKey{a: a, b: b}
	if r, ok := p.mulCache[key]; ok {
		return r
	}

	var res Edge
	if b.kind == Vector {
		e0 := p.Add(p.Multiply(a.e[0], b.e[0]), p.Multiply(a.e[1], b.e[1]))
		e1 := p.Add(p.Multiply(a.e[2], b.e[0]), p.Multiply(a.e[3], b.e[1]))
		res = p.makeNode(Vector, a.v, [4]Edge{e0, e1})
	} else {
		var out [4]Edge
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				out[2*i+j] = p.Add(
					p.Multiply(a.e[2*i], b.e[j]),
					p.Multiply(a.e[2*i+1], b.e[2+j]))
			}
		}
		res = p.makeNode(Matrix, a.v, out)
	}
	p.mulCache[key] = res
	return res
}

// Add returns a+b. Both operands must be of the same kind and span the same
// levels.
func (p *Package) Add(a, b Edge) Edge {
	if a.W == 0 {
		return b
	}
	if b.W == 0 {
		return a
	}
	if a.P.v < 0 && b.P.v < 0 {
		return p.terminalEdge(a.W + b.W)
	}
	key := addKey{a: a.P, b: b.P, wa: a.W, wb: b.W}
	if r, ok := p.addCache[key]; ok {
		return r
	}

	kind := a.P.kind
	width := 2
	if kind == Matrix {
		width = 4
	}
	var out [4]Edge
	for i := 0; i < width; i++ {
		out[i] = p.Add(a.P.e[i].scale(a.W), b.P.e[i].scale(b.W))
	}
	res := p.makeNode(kind, a.P.v, out)
	p.addCache[key] = res
	return res
}

// ConjugateTranspose returns the conjugate transpose of a matrix diagram.
func (p *Package) ConjugateTranspose(a Edge) Edge {
	if a.W == 0 {
		return p.zero()
	}
	r := p.ctNode(a.P)
	return Edge{P: r.P, W: p.lookup(cmplx.Conj(a.W) * r.W)}
}

func (p *Package) ctNode(n *Node) Edge {
	if n.v < 0 {
		return p.one()
	}
	if r, ok := p.ctCache[n]; ok {
		return r
	}
	out := [4]Edge{
		p.ConjugateTranspose(n.e[0]),
		p.ConjugateTranspose(n.e[2]),
		p.ConjugateTranspose(n.e[1]),
		p.ConjugateTranspose(n.e[3]),
	}
	res := p.makeNode(Matrix, n.v, out)
	p.ctCache[n] = res
	return res
}

// InnerProduct computes <a|b> for two vector diagrams.
func (p *Package) InnerProduct(a, b Edge) complex128 {
	if a.W == 0 || b.W == 0 {
		return 0
	}
	return cmplx.Conj(a.W) * b.W * p.ipNode(a.P, b.P)
}

func (p *Package) ipNode(a, b *Node) complex128 {
	if a.v < 0 && b.v < 0 {
		return 1
	}
	key := ipKey{a: a, b: b}
	if r, ok := p.ipCache[key]; ok {
		return r
	}
	sum := p.InnerProduct(a.e[0], b.e[0]) + p.InnerProduct(a.e[1], b.e[1])
	p.ipCache[key] = sum
	return sum
}

// Fidelity computes |<a|b>|^2 for two vector diagrams.
func (p *Package) Fidelity(a, b Edge) float64 {
	ip := p.InnerProduct(a, b)
	return real(ip)*real(ip) + imag(ip)*imag(ip)
}

// Trace computes the trace of a matrix diagram.
func (p *Package) Trace(e Edge) complex128 {
	memo := make(map[*Node]complex128)
	var tr func(Edge) complex128
	tr = func(e Edge) complex128 {
		if e.W == 0 {
			return 0
		}
		if e.P.v < 0 {
			return e.W
		}
		m, ok := memo[e.P]
		if !ok {
			m = tr(e.P.e[0]) + tr(e.P.e[3])
			memo[e.P] = m
		}
		return e.W * m
	}
	return tr(e)
}

// NormSquared computes the squared Frobenius norm of a matrix diagram, or the
// squared 2-norm of a vector diagram.
func (p *Package) NormSquared(e Edge) float64 {
	memo := make(map[*Node]float64)
	width := 2
	if e.P != nil && e.P.kind == Matrix {
		width = 4
	}
	var fn func(Edge) float64
	fn = func(e Edge) float64 {
		if e.W == 0 {
			return 0
		}
		w2 := real(e.W)*real(e.W) + imag(e.W)*imag(e.W)
		if e.P.v < 0 {
			return w2
		}
		m, ok := memo[e.P]
		if !ok {
			for i := 0; i < width; i++ {
				m += fn(e.P.e[i])
			}
			memo[e.P] = m
		}
		return w2 * m
	}
	return fn(e)
}

// IsCloseToIdentity reports whether a matrix diagram is, within tol, a scalar
// multiple of the identity with modulus one. The check rests on the equality
// case of Cauchy-Schwarz: |tr(E)| = 2^n together with ||E||_F^2 = 2^n forces
// E = c·I with |c| = 1.
func (p *Package) IsCloseToIdentity(e Edge, tol float64) bool {
	if e.W == 0 {
		return false
	}
	if e.P.ident || e.P.v < 0 {
		return math.Abs(cmplx.Abs(e.W)-1) < tol
	}
	dim := float64(uint64(1) << uint(e.P.v+1))
	if math.Abs(cmplx.Abs(p.Trace(e))/dim-1) > tol {
		return false
	}
	return math.Abs(p.NormSquared(e)/dim-1) < tol
}
