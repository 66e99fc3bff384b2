package palette

import "testing"

func TestLCGSequence(t *testing.T) {
	g := NewLCG(42)
	want := []int64{206659, 190736, 223713, 179590}
	for i, w := range want {
		r := g.Next()
		if g.State() != w {
			t.Fatalf("step %d: state = %d, want %d", i, g.State(), w)
		}
		if r != float64(w)/233280 {
			t.Errorf("step %d: Next() = %v, want %v", i, r, float64(w)/233280)
		}
	}
}

func TestLCGNegativeSeed(t *testing.T) {
	g := NewLCG(-5)
	g.Next()
	if g.State() != 2792 {
		t.Errorf("state = %d, want 2792", g.State())
	}
}

func TestLCGRange(t *testing.T) {
	g := NewLCG(987654321)
	for range 10000 {
		if r := g.Next(); r < 0 || r >= 1 {
			t.Fatalf("Next() = %v, out of [0,1)", r)
		}
	}
}

func TestRandomSeedInRange(t *testing.T) {
	for range 100 {
		if s := RandomSeed(); s < 0 || s >= lcgModulus {
			t.Fatalf("RandomSeed() = %d, out of range", s)
		}
	}
}
