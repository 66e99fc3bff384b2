package transform

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/shapegrid/pkg/grid"
)

// Axis is the cylinder axis the grid wraps around.
type Axis int

const (
	// AxisY wraps columns around a vertical cylinder.
	AxisY Axis = iota
	// AxisX wraps rows around a horizontal cylinder.
	AxisX
)

// String returns "x" or "y".
func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// ParseAxis parses "x" or "y" (case-insensitive).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y":
		return AxisY, nil
	case "x":
		return AxisX, nil
	}
	return AxisY, fmt.Errorf("unknown cylinder axis %q (must be x or y)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	v, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// State holds the pose-only parameters. Changing them never regenerates the
// grid.
type State struct {
	Axis      Axis
	Curvature float64
	Radius    float64

	// Manual rotations in radians.
	RotationX float64
	RotationY float64
	RotationZ float64

	Position grid.Vec3
}

// Pose is the final placement of one unit. Rotation holds Euler angles in
// radians around X, Y and Z.
type Pose struct {
	Position grid.Vec3
	Rotation grid.Vec3
}

// ComputePose derives the pose of u from its baseline.
func ComputePose(u grid.Unit, s State, cfg grid.Config) Pose {
	pos, wrap := wrap(u.Baseline, s, cfg)
	pos = pos.Add(s.Position)

	rot := grid.Vec3{X: s.RotationX, Y: s.RotationY, Z: s.RotationZ}
	switch s.Axis {
	case AxisX:
		rot.X += wrap
	default:
		rot.Y += wrap
	}
	return Pose{Position: pos, Rotation: rot}
}

// ComputeAll computes the pose of every unit, in order.
func ComputeAll(units []grid.Unit, s State, cfg grid.Config) []Pose {
	poses := make([]Pose, len(units))
	for i, u := range units {
		poses[i] = ComputePose(u, s, cfg)
	}
	return poses
}

// wrap bends the baseline around the cylinder and returns the wrapped
// position together with the rotation contribution on the wrap axis.
func wrap(b grid.Vec3, s State, cfg grid.Config) (grid.Vec3, float64) {
	c := s.Curvature
	if c == 0 {
		return b, 0
	}
	r := s.Radius

	switch s.Axis {
	case AxisX:
		angle := b.Y / (float64(cfg.Rows) * cfg.RowSpacing) * 2 * math.Pi * c
		return grid.Vec3{
			X: b.X,
			Y: math.Sin(angle)*r*c + b.Y*(1-c),
			Z: (math.Cos(angle)*r - r) * c,
		}, -angle
	default:
		angle := b.X / (float64(cfg.Cols) * cfg.ColSpacing) * 2 * math.Pi * c
		return grid.Vec3{
			X: math.Sin(angle)*r*c + b.X*(1-c),
			Y: b.Y,
			Z: (math.Cos(angle)*r - r) * c,
		}, angle
	}
}
