package circuit

import (
	"math"
	"math/cmplx"
)

// Gate identifies a quantum gate or a non-unitary circuit element.
type Gate uint8

const (
	I Gate = iota
	X
	Y
	Z
	H
	S
	Sdg
	T
	Tdg
	SX
	SXdg
	RX
	RY
	RZ
	Phase
	GPhase
	SWAP
	Measure
	Barrier
)

var gateNames = map[Gate]string{
	I: "id", X: "x", Y: "y", Z: "z", H: "h",
	S: "s", Sdg: "sdg", T: "t", Tdg: "tdg",
	SX: "sx", SXdg: "sxdg",
	RX: "rx", RY: "ry", RZ: "rz", Phase: "p", GPhase: "gphase",
	SWAP: "swap", Measure: "measure", Barrier: "barrier",
}

func (g Gate) String() string {
	if s, ok := gateNames[g]; ok {
		return s
	}
	return "unknown"
}

// Matrix returns the 2x2 definition of a single-qubit gate. theta is only
// consulted for the parameterized rotations. SWAP, Measure and Barrier have
// no single-qubit matrix.
func (g Gate) Matrix(theta float64) [2][2]complex128 {
	sq2 := complex(1/math.Sqrt2, 0)
	switch g {
	case I:
		return [2][2]complex128{{1, 0}, {0, 1}}
	case X:
		return [2][2]complex128{{0, 1}, {1, 0}}
	case Y:
		return [2][2]complex128{{0, -1i}, {1i, 0}}
	case Z:
		return [2][2]complex128{{1, 0}, {0, -1}}
	case H:
		return [2][2]complex128{{sq2, sq2}, {sq2, -sq2}}
	case S:
		return [2][2]complex128{{1, 0}, {0, 1i}}
	case Sdg:
		return [2][2]complex128{{1, 0}, {0, -1i}}
	case T:
		return [2][2]complex128{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}
	case Tdg:
		return [2][2]complex128{{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}}
	case SX:
		return [2][2]complex128{{0.5 + 0.5i, 0.5 - 0.5i}, {0.5 - 0.5i, 0.5 + 0.5i}}
	case SXdg:
		return [2][2]complex128{{0.5 - 0.5i, 0.5 + 0.5i}, {0.5 + 0.5i, 0.5 - 0.5i}}
	case RX:
		c := complex(math.Cos(theta/2), 0)
		s := complex(0, -math.Sin(theta/2))
		return [2][2]complex128{{c, s}, {s, c}}
	case RY:
		c := complex(math.Cos(theta/2), 0)
		s := complex(math.Sin(theta/2), 0)
		return [2][2]complex128{{c, -s}, {s, c}}
	case RZ:
		return [2][2]complex128{
			{cmplx.Exp(complex(0, -theta/2)), 0},
			{0, cmplx.Exp(complex(0, theta/2))},
		}
	case Phase:
		return [2][2]complex128{{1, 0}, {0, cmplx.Exp(complex(0, theta))}}
	}
	return [2][2]complex128{{1, 0}, {0, 1}}
}

// inverse maps every gate onto its adjoint. Parameterized gates invert by
// negating their parameter, which Operation.Inverse takes care of.
var inverse = map[Gate]Gate{
	I: I, X: X, Y: Y, Z: Z, H: H, SWAP: SWAP,
	S: Sdg, Sdg: S, T: Tdg, Tdg: T, SX: SXdg, SXdg: SX,
	RX: RX, RY: RY, RZ: RZ, Phase: Phase, GPhase: GPhase,
	Measure: Measure, Barrier: Barrier,
}
