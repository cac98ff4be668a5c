package qcheck_test

import (
	"fmt"

	"qcheck"
	"qcheck/circuit"
	"qcheck/config"
)

// Two realizations of the same two-qubit state preparation are verified
// against each other.
func ExampleVerify() {
	a := circuit.New(2)
	a.H(0)
	a.CX(0, 1)

	// the same computation with the Hadamard decomposed into rotations
	b := circuit.New(2)
	b.RY(1.5707963267948966, 0) // pi/2
	b.X(0)
	b.CX(0, 1)

	cfg := config.Default()
	cfg.Simulation.Seed = 1

	result, err := qcheck.Verify(a, b, qcheck.WithConfig(cfg))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(result.Verdict)
	// Output: equivalent
}
