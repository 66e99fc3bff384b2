package palette

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a color with straight (non-premultiplied) alpha. Components are in
// [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// ParseHex parses a "#rrggbb" or "#rgb" color and attaches alpha.
func ParseHex(hex string, alpha float64) (RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: clamp01(alpha)}, nil
}

// MustHex is like ParseHex but panics on malformed input. It is intended for
// package-level defaults.
func MustHex(hex string, alpha float64) RGBA {
	c, err := ParseHex(hex, alpha)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the "#rrggbb" form of the color, ignoring alpha.
func (c RGBA) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// String returns the hex form followed by alpha, e.g. "#ff8800@0.50".
func (c RGBA) String() string {
	return fmt.Sprintf("%s@%.2f", c.Hex(), c.A)
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
