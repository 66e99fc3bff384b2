package palette

import "github.com/matzehuels/shapegrid/pkg/grid"

// GroupCount is the number of color groups.
const GroupCount = 3

// Group is one fill/stroke/frequency preset.
type Group struct {
	Fill      RGBA
	Stroke    RGBA
	Frequency float64

	// SyncColors makes the stroke mirror the fill.
	SyncColors bool
}

// StrokeColor returns the effective stroke color, honoring SyncColors.
func (g Group) StrokeColor() RGBA {
	if g.SyncColors {
		return g.Fill
	}
	return g.Stroke
}

// Palette is the set of three color groups.
type Palette [GroupCount]Group

// Frequencies returns the frequency of each group in order.
func (p Palette) Frequencies() [GroupCount]float64 {
	var f [GroupCount]float64
	for i, g := range p {
		f[i] = g.Frequency
	}
	return f
}

// Probabilities normalizes frequencies into cumulative-ready probabilities.
// The caller must supply at least one positive frequency.
func Probabilities(freqs [GroupCount]float64) [GroupCount]float64 {
	total := freqs[0] + freqs[1] + freqs[2]
	var p [GroupCount]float64
	for i, f := range freqs {
		p[i] = f / total
	}
	return p
}

// Classify maps a draw r in [0, 1) to a group index.
func Classify(r float64, p [GroupCount]float64) int {
	switch {
	case r < p[0]:
		return 0
	case r < p[0]+p[1]:
		return 1
	default:
		return 2
	}
}

// Assign sets Group on every unit, in slice order, using a fresh generator
// seeded with seed.
func Assign(units []grid.Unit, freqs [GroupCount]float64, seed int64) {
	p := Probabilities(freqs)
	rng := NewLCG(seed)
	for i := range units {
		units[i].Group = Classify(rng.Next(), p)
	}
}

// Counts returns how many units fall into each group.
func Counts(units []grid.Unit) [GroupCount]int {
	var n [GroupCount]int
	for _, u := range units {
		if u.Group >= 0 && u.Group < GroupCount {
			n[u.Group]++
		}
	}
	return n
}
