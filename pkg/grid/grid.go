package grid

import (
	"fmt"
	"strings"
)

// Shape is the kind of flat geometry a unit is drawn with.
type Shape int

const (
	// Disc is a filled circle with a ring border.
	Disc Shape = iota
	// Quad is a filled rectangle with a frame border.
	Quad
)

// String returns the lowercase name used in settings records.
func (s Shape) String() string {
	switch s {
	case Disc:
		return "disc"
	case Quad:
		return "quad"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Flip returns the other shape kind.
func (s Shape) Flip() Shape {
	if s == Disc {
		return Quad
	}
	return Disc
}

// ParseShape parses a shape name. "circle" and "rectangle" are accepted as
// aliases for older records.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "disc", "circle":
		return Disc, nil
	case "quad", "rectangle", "rect":
		return Quad, nil
	}
	return Disc, fmt.Errorf("unknown shape %q (must be one of: disc, quad)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(b []byte) error {
	v, err := ParseShape(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Vec3 is a point or offset in world units.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Config holds the structural parameters of one generation pass.
// Any change to these fields requires regenerating the grid.
type Config struct {
	Rows       int
	Cols       int
	RowSpacing float64
	ColSpacing float64

	Shape        Shape
	CircleRadius float64
	RectWidth    float64
	RectHeight   float64

	WidthScaling     bool
	WidthScaleFactor float64

	// BorderThickness is the stroke thickness as a fraction of the shape
	// size, in (0, 0.5).
	BorderThickness float64
}

// Count returns the number of units a config generates.
func (c Config) Count() int { return c.Rows * c.Cols }

// Unit is one shape instance in the grid.
type Unit struct {
	// Baseline is the untransformed grid position. It is the sole input to
	// pose recomputation and is never modified after generation.
	Baseline Vec3

	Row, Col int

	// Group is the color group index (0, 1 or 2).
	Group int

	// Shape is the current shape kind. It starts as Config.Shape and is
	// flipped by shape morphs.
	Shape Shape
}

// Index returns the row-major index of u within a grid of cols columns.
func (u Unit) Index(cols int) int { return u.Row*cols + u.Col }
