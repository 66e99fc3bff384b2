package palette

import "math/rand/v2"

// LCG parameters.
const (
	lcgMul     = 9301
	lcgInc     = 49297
	lcgModulus = 233280
)

// LCG is a deterministic pseudo-random generator. The zero value is a
// generator seeded with 0.
type LCG struct {
	state int64
}

// NewLCG returns a generator seeded with seed. Negative and large seeds are
// reduced into [0, 233280) first, which yields the same sequence as
// carrying them through the modular step.
func NewLCG(seed int64) *LCG {
	return &LCG{state: reduce(seed)}
}

// Next advances the generator and returns a value in [0, 1).
func (g *LCG) Next() float64 {
	g.state = (g.state*lcgMul + lcgInc) % lcgModulus
	return float64(g.state) / lcgModulus
}

// State returns the current internal state.
func (g *LCG) State() int64 { return g.state }

func reduce(seed int64) int64 {
	s := seed % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	return s
}

// RandomSeed returns a non-deterministic seed. Callers must persist the
// returned value with their settings; nothing in this package substitutes
// a random seed implicitly.
func RandomSeed() int64 {
	return rand.Int64N(lcgModulus)
}
