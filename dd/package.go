package dd

import (
	"math"

	"github.com/pkg/errors"
)

// Eps is the tolerance used when canonicalizing edge weights and when
// comparing weights for approximate equality.
const Eps = 1e-10

// ErrQubitRange is returned when an operation refers to a qubit outside the
// range the package was created for.
var ErrQubitRange = errors.New("dd: qubit index out of range")

type nodeKey struct {
	v    int
	kind Kind
	e    [4]Edge
}

// Package owns the unique tables, the compute caches and the terminal node of
// one canonical graph. It is not safe for concurrent use; every checker run
// owns its own Package.
type Package struct {
	nqubits  int
	terminal *Node

	unique map[nodeKey]*Node

	// weight canonicalization table: floats within tol of an already
	// registered value are collapsed onto it, so that numerically equal
	// diagrams hash onto the same nodes.
	ctab map[int64]float64
	tol  float64

	mulCache map[mulKey]Edge
	addCache map[addKey]Edge
	ctCache  map[*Node]Edge
	ipCache  map[ipKey]complex128

	peak int
}

// New creates a package for diagrams over nqubits qubits with the default
// weight tolerance Eps.
func New(nqubits int) *Package {
	return NewWithTolerance(nqubits, Eps)
}

// NewWithTolerance creates a package whose weight canonicalization uses the
// given tolerance. Non-positive tolerances fall back to Eps.
func NewWithTolerance(nqubits int, tol float64) *Package {
	if tol <= 0 {
		tol = Eps
	}
	p := &Package{
		nqubits:  nqubits,
		unique:   make(map[nodeKey]*Node),
		ctab:     make(map[int64]float64),
		tol:      tol,
		mulCache: make(map[mulKey]Edge),
		addCache: make(map[addKey]Edge),
		ctCache:  make(map[*Node]Edge),
		ipCache:  make(map[ipKey]complex128),
	}
	p.terminal = &Node{v: -1, ref: 1}
	return p
}

// Tolerance returns the weight canonicalization tolerance.
func (p *Package) Tolerance() float64 { return p.tol }

// Qubits returns the number of qubits the package was created for.
func (p *Package) Qubits() int { return p.nqubits }

func (p *Package) zero() Edge { return Edge{P: p.terminal, W: 0} }
func (p *Package) one() Edge  { return Edge{P: p.terminal, W: 1} }

func (p *Package) terminalEdge(w complex128) Edge {
	return Edge{P: p.terminal, W: p.lookup(w)}
}

// lookup canonicalizes a weight through the tolerance table. Values within
// the tolerance of zero collapse to zero, all other real and imaginary parts
// collapse onto the first registered representative of their neighborhood.
func (p *Package) lookup(w complex128) complex128 {
	return complex(p.lookupFloat(real(w)), p.lookupFloat(imag(w)))
}

func (p *Package) lookupFloat(v float64) float64 {
	if math.Abs(v) < p.tol {
		return 0
	}
	key := int64(math.Round(v / p.tol))
	for _, k := range [3]int64{key, key - 1, key + 1} {
		if r, ok := p.ctab[k]; ok && math.Abs(r-v) < p.tol {
			return r
		}
	}
	p.ctab[key] = v
	return v
}

// makeNode normalizes the successor edges, performs the unique table lookup
// and returns a canonical edge to the (possibly shared) node. The common
// factor pulled out during normalization becomes the weight of the returned
// edge: diagrams equal up to a global factor therefore share their node and
// differ only in the top weight.
func (p *Package) makeNode(kind Kind, v int, edges [4]Edge) Edge {
	width := 2
	if kind == Matrix {
		width = 4
	}

	var top complex128
	for i := 0; i < width; i++ {
		if edges[i].W != 0 {
			top = edges[i].W
			break
		}
	}
	if top == 0 {
		return p.zero()
	}

	for i := 0; i < width; i++ {
		w := p.lookup(edges[i].W / top)
		if w == 0 {
			edges[i] = p.zero()
		} else {
			edges[i] = Edge{P: edges[i].P, W: w}
		}
	}
	for i := width; i < 4; i++ {
		edges[i] = p.zero()
	}

	key := nodeKey{v: v, kind: kind, e: edges}
	if n, ok := p.unique[key]; ok {
		return Edge{P: n, W: p.lookup(top)}
	}

	n := &Node{e: edges, v: v, kind: kind}
	if kind == Matrix {
		n.ident = edges[0].W == 1 && edges[3].W == 1 &&
			edges[1].W == 0 && edges[2].W == 0 &&
			edges[0].P == edges[3].P &&
			(edges[0].P == p.terminal || edges[0].P.ident)
	}
	p.unique[key] = n
	if len(p.unique) > p.peak {
		p.peak = len(p.unique)
	}
	return Edge{P: n, W: p.lookup(top)}
}

// IncRef registers an additional owner of the diagram rooted at e. Reference
// counts saturate at the node level: successors are only touched when a node
// comes alive. Must be paired with exactly one DecRef.
func (p *Package) IncRef(e Edge) {
	if e.P == nil || e.P == p.terminal || e.W == 0 {
		return
	}
	e.P.ref++
	if e.P.ref == 1 {
		for _, c := range e.P.e {
			p.IncRef(c)
		}
	}
}

// DecRef releases one ownership of the diagram rooted at e.
func (p *Package) DecRef(e Edge) {
	if e.P == nil || e.P == p.terminal || e.W == 0 {
		return
	}
	if e.P.ref == 0 {
		panic("dd: reference count underflow")
	}
	e.P.ref--
	if e.P.ref == 0 {
		for _, c := range e.P.e {
			p.DecRef(c)
		}
	}
}

// GarbageCollect removes all nodes without outstanding references from the
// unique table and flushes the compute caches. It must only be called when
// the reference counts of every diagram that is still needed have been
// reconciled; handles to collected nodes become invalid.
func (p *Package) GarbageCollect() {
	if len(p.unique) > p.peak {
		p.peak = len(p.unique)
	}
	for k, n := range p.unique {
		if n.ref == 0 {
			delete(p.unique, k)
		}
	}
	p.mulCache = make(map[mulKey]Edge)
	p.addCache = make(map[addKey]Edge)
	p.ctCache = make(map[*Node]Edge)
	p.ipCache = make(map[ipKey]complex128)
}

// ActiveNodes returns the current number of nodes in the unique table.
func (p *Package) ActiveNodes() int { return len(p.unique) }

// PeakNodes returns the largest unique table size observed so far.
func (p *Package) PeakNodes() int {
	if len(p.unique) > p.peak {
		p.peak = len(p.unique)
	}
	return p.peak
}

// Size returns the number of distinct nodes in the diagram rooted at e,
// including the terminal.
func (p *Package) Size(e Edge) int {
	seen := make(map[*Node]struct{})
	p.visit(e.P, seen)
	return len(seen)
}

func (p *Package) visit(n *Node, seen map[*Node]struct{}) {
	if n == nil {
		return
	}
	if _, ok := seen[n]; ok {
		return
	}
	seen[n] = struct{}{}
	if n.v < 0 {
		return
	}
	for _, c := range n.e {
		if c.W != 0 {
			p.visit(c.P, seen)
		}
	}
}

// WeightsClose reports whether two edge weights agree within Eps.
func WeightsClose(a, b complex128) bool {
	return math.Abs(real(a)-real(b)) < Eps && math.Abs(imag(a)-imag(b)) < Eps
}
