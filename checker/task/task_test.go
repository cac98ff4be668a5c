package task

import (
	"testing"

	"qcheck/circuit"
	"qcheck/dd"
)

func newTask(t *testing.T, build func(c *circuit.Circuit)) (*Task, *dd.Package) {
	t.Helper()
	c := circuit.New(2)
	build(c)
	p := dd.New(2)
	return New(c, p), p
}

func TestAdvanceAndFinish(t *testing.T) {
	tk, p := newTask(t, func(c *circuit.Circuit) {
		c.X(0)
		c.X(0)
		c.Measure(0)
	})
	tk.SetInternalState(p.Identity())
	tk.IncRef()

	if err := tk.Advance(1); err != nil {
		t.Fatal(err)
	}
	if tk.Remaining() != 2 {
		t.Errorf("Remaining = %d, want 2", tk.Remaining())
	}
	if err := tk.Finish(); err != nil {
		t.Fatal(err)
	}
	if !tk.Finished() {
		t.Error("task should be finished")
	}
	// X·X cancels, measurement is skipped
	if !tk.InternalState().IsIdent() {
		t.Error("state should be the identity after X·X")
	}
}

func TestApplySwapOperationsUpdatesPermutation(t *testing.T) {
	tk, p := newTask(t, func(c *circuit.Circuit) {
		c.Swap(0, 1)
		c.X(0)
	})
	tk.SetInternalState(p.Identity())
	tk.IncRef()
	tk.ApplySwapOperations()

	if tk.Remaining() != 1 {
		t.Fatalf("Remaining = %d, want 1", tk.Remaining())
	}
	// x on circuit qubit 0 must now land on level 1
	if err := tk.Finish(); err != nil {
		t.Fatal(err)
	}
	x1, err := p.GateDD(dd.GateMatrix{{0, 1}, {1, 0}}, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := tk.InternalState()
	if got.P != x1.P || !dd.WeightsClose(got.W, x1.W) {
		t.Error("relabeled X should act on level 1")
	}
}

func TestReversedTaskCancelsForward(t *testing.T) {
	build := func(c *circuit.Circuit) {
		c.H(0)
		c.S(0)
		c.CX(0, 1)
	}
	c1 := circuit.New(2)
	build(c1)
	c2 := circuit.New(2)
	build(c2)

	p := dd.New(2)
	shared := new(dd.Edge)
	*shared = p.Identity()
	p.IncRef(*shared)

	t1 := New(c1, p)
	t2 := New(c2, p)
	t2.FlipDirection()
	t1.BindState(shared)
	t2.BindState(shared)

	if err := t1.Finish(); err != nil {
		t.Fatal(err)
	}
	if err := t2.Finish(); err != nil {
		t.Fatal(err)
	}
	if !shared.IsIdent() || !dd.WeightsClose(shared.W, 1) {
		t.Error("a circuit against itself should cancel to the identity")
	}
}

func TestChangePermutationRoundTrip(t *testing.T) {
	// swap-only circuit: the permutation absorbs the swap, then
	// ChangePermutation folds a compensating relabeling into the state to
	// reach the declared output permutation.
	c := circuit.New(2)
	c.Swap(0, 1)
	if err := c.SetOutputPermutation([]int{1, 0}); err != nil {
		t.Fatal(err)
	}
	p := dd.New(2)
	tk := New(c, p)
	tk.SetInternalState(p.Identity())
	tk.IncRef()

	tk.ApplySwapOperations()
	if !tk.Finished() {
		t.Fatal("swap should have been consumed")
	}
	if err := tk.ChangePermutation(); err != nil {
		t.Fatal(err)
	}
	// permutation already matches the declared output permutation, so the
	// state must still be the bare identity
	if !tk.InternalState().IsIdent() || !dd.WeightsClose(tk.InternalState().W, 1) {
		t.Error("no compensation should have been applied")
	}
}

func TestChangePermutationCompensates(t *testing.T) {
	// same circuit, but the declared output permutation is the identity:
	// the tracked permutation must be swapped back via a multiplication.
	c := circuit.New(2)
	c.Swap(0, 1)
	p := dd.New(2)
	tk := New(c, p)
	tk.SetInternalState(p.Identity())
	tk.IncRef()

	tk.ApplySwapOperations()
	if err := tk.ChangePermutation(); err != nil {
		t.Fatal(err)
	}
	swap, err := p.SwapDD(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	got := tk.InternalState()
	if got.P != swap.P || !dd.WeightsClose(got.W, swap.W) {
		t.Error("compensation should equal the swap operator")
	}
}

func TestResetRewinds(t *testing.T) {
	tk, p := newTask(t, func(c *circuit.Circuit) {
		c.X(0)
	})
	tk.SetInternalState(p.ZeroState())
	tk.IncRef()
	if err := tk.Finish(); err != nil {
		t.Fatal(err)
	}
	tk.Reset()
	if tk.Finished() || tk.Remaining() != 1 {
		t.Error("reset should rewind the cursor")
	}
}

func TestGateDDInversePair(t *testing.T) {
	tk, p := newTask(t, func(c *circuit.Circuit) {
		c.S(0)
	})
	g, err := tk.GateDD()
	if err != nil {
		t.Fatal(err)
	}
	inv, err := tk.InverseGateDD()
	if err != nil {
		t.Fatal(err)
	}
	prod := p.Multiply(g, inv)
	if !prod.IsIdent() || !dd.WeightsClose(prod.W, 1) {
		t.Error("gate times its inverse should be the identity")
	}
}
