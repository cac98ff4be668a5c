package dd

// Kind distinguishes the two decision diagram variants handled by a Package.
// Vector nodes use the first two successor edges, matrix nodes all four.
type Kind uint8

const (
	Vector Kind = iota
	Matrix
)

// Node is a vertex in the shared canonical graph. Nodes are hash-consed:
// structurally identical sub-diagrams are represented by the same *Node, so
// pointer equality is a valid (and cheap) equality test for whole diagrams.
// Nodes must only be created through Package.makeNode.
type Node struct {
	e    [4]Edge
	v    int // qubit level; the terminal node has level -1
	kind Kind
	ref  uint32

	// ident marks matrix nodes that represent the identity on levels 0..v.
	// It enables shortcuts in multiplication and identity checks.
	ident bool
}

// Level returns the qubit level of the node's top variable.
func (n *Node) Level() int { return n.v }

// Edge is a handle into the canonical graph: a target node together with a
// complex weight that scales everything below it. Diagrams are passed and
// stored by Edge value; the node it points at is owned by the Package.
type Edge struct {
	P *Node
	W complex128
}

// IsZero reports whether the edge denotes the zero vector/operator.
func (e Edge) IsZero() bool { return e.W == 0 }

// IsTerminal reports whether the edge points directly at the terminal node.
func (e Edge) IsTerminal() bool { return e.P != nil && e.P.v < 0 }

// IsMatrixKind reports whether the edge denotes an operator rather than a
// state vector.
func (e Edge) IsMatrixKind() bool { return e.P != nil && e.P.v >= 0 && e.P.kind == Matrix }

// IsIdent reports whether the diagram is structurally the identity operator,
// disregarding the top weight.
func (e Edge) IsIdent() bool { return e.P != nil && (e.P.ident || e.P.v < 0) }

func (e Edge) scale(w complex128) Edge {
	if w == 0 || e.W == 0 {
		return Edge{P: e.P, W: 0}
	}
	return Edge{P: e.P, W: e.W * w}
}
