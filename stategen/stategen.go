// Package stategen produces random initial states for the simulation
// checker. Ancillary qubits are always initialized to zero so that both
// circuits see the same well-defined inputs.
package stategen

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"qcheck/dd"
)

// Type selects the population random states are drawn from.
type Type int

const (
	// Computational draws uniformly from the classical basis states.
	Computational Type = iota
	// OneQubitBasis draws each qubit independently from the six one-qubit
	// stabilizer states.
	OneQubitBasis
)

// ErrUnknownType is returned for a state type that does not exist.
var ErrUnknownType = errors.New("stategen: unknown state type")

// ParseType maps a configuration string to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "", "computational":
		return Computational, nil
	case "onequbitbasis":
		return OneQubitBasis, nil
	default:
		return Computational, errors.Wrapf(ErrUnknownType, "%q", s)
	}
}

// Generator draws random initial states from a seeded source, so a run can
// be reproduced by fixing the seed.
type Generator struct {
	typ Type
	rng *rand.Rand
}

// New creates a generator. A zero seed draws a fresh one.
func New(typ Type, seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{typ: typ, rng: rand.New(rand.NewSource(int64(seed)))}
}

// Generate builds the next random state in p. Qubits flagged ancillary stay
// in the zero state.
func (g *Generator) Generate(p *dd.Package, ancillary []bool) dd.Edge {
	switch g.typ {
	case OneQubitBasis:
		return g.oneQubitBasis(p, ancillary)
	default:
		return g.computational(p, ancillary)
	}
}

func (g *Generator) computational(p *dd.Package, ancillary []bool) dd.Edge {
	bits := make([]bool, p.Qubits())
	for q := range bits {
		if q < len(ancillary) && ancillary[q] {
			continue
		}
		bits[q] = g.rng.Intn(2) == 1
	}
	return p.BasisState(bits)
}

var oneQubitStates = [][2]complex128{
	{1, 0},                                       // |0>
	{0, 1},                                       // |1>
	{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},  // |+>
	{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)}, // |->
	{complex(1/math.Sqrt2, 0), complex(0, 1/math.Sqrt2)},  // |L>
	{complex(1/math.Sqrt2, 0), complex(0, -1/math.Sqrt2)}, // |R>
}

func (g *Generator) oneQubitBasis(p *dd.Package, ancillary []bool) dd.Edge {
	amps := make([][2]complex128, p.Qubits())
	for q := range amps {
		if q < len(ancillary) && ancillary[q] {
			amps[q] = oneQubitStates[0]
			continue
		}
		amps[q] = oneQubitStates[g.rng.Intn(len(oneQubitStates))]
	}
	return p.ProductState(amps)
}
