package stategen

import (
	"math/cmplx"
	"testing"

	"qcheck/dd"
)

func TestParseType(t *testing.T) {
	for _, s := range []string{"", "computational"} {
		typ, err := ParseType(s)
		if err != nil || typ != Computational {
			t.Errorf("ParseType(%q) = (%v, %v)", s, typ, err)
		}
	}
	if typ, err := ParseType("onequbitbasis"); err != nil || typ != OneQubitBasis {
		t.Errorf("ParseType(onequbitbasis) = (%v, %v)", typ, err)
	}
	if _, err := ParseType("telepathic"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestSeedDeterminism(t *testing.T) {
	for _, typ := range []Type{Computational, OneQubitBasis} {
		p := dd.New(3)
		g1 := New(typ, 99)
		g2 := New(typ, 99)
		for i := 0; i < 5; i++ {
			a := g1.Generate(p, nil)
			b := g2.Generate(p, nil)
			// hash consing: identical draws share their node
			if a.P != b.P || a.W != b.W {
				t.Fatalf("draw %d diverged for type %v", i, typ)
			}
		}
	}
}

func TestAncillaryForcedToZero(t *testing.T) {
	p := dd.New(2)
	zero := p.ZeroState()
	g := New(OneQubitBasis, 5)
	for i := 0; i < 8; i++ {
		s := g.Generate(p, []bool{true, true})
		if s.P != zero.P || !dd.WeightsClose(s.W, zero.W) {
			t.Fatal("all-ancillary state should be |00>")
		}
	}
}

func TestStatesNormalized(t *testing.T) {
	p := dd.New(2)
	g := New(OneQubitBasis, 11)
	for i := 0; i < 8; i++ {
		s := g.Generate(p, nil)
		if n := cmplx.Abs(p.InnerProduct(s, s)); n < 1-1e-9 || n > 1+1e-9 {
			t.Fatalf("draw %d has norm %v", i, n)
		}
	}
}
