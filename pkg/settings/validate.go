package settings

import (
	"math"

	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/palette"
	"github.com/matzehuels/shapegrid/pkg/transform"
)

// MaxUnits bounds rows*cols so a record from an untrusted source cannot
// request an unbounded number of adapter resources.
const MaxUnits = 250_000

// Validate reports the first problem in s as an INVALID_SETTINGS error.
// A missing ColorSeed is not an error.
func Validate(s Settings) error {
	if err := grid.Validate(s.GridConfig()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "invalid grid")
	}
	if s.Rows > MaxUnits || s.Cols > MaxUnits || s.Rows > MaxUnits/s.Cols {
		return errors.New(errors.ErrCodeInvalidSettings, "grid too large: %dx%d exceeds %d units", s.Rows, s.Cols, MaxUnits)
	}

	if s.WrapAxis != transform.AxisX && s.WrapAxis != transform.AxisY {
		return errors.New(errors.ErrCodeInvalidSettings, "unknown wrap axis %d", s.WrapAxis)
	}
	if s.Curvature < 0 || s.Curvature > 1 || math.IsNaN(s.Curvature) {
		return errors.New(errors.ErrCodeInvalidSettings, "curvature must be in [0, 1], got %g", s.Curvature)
	}
	if s.Radius <= 0 || math.IsNaN(s.Radius) {
		return errors.New(errors.ErrCodeInvalidSettings, "radius must be positive, got %g", s.Radius)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"rotationX", s.RotationX}, {"rotationY", s.RotationY}, {"rotationZ", s.RotationZ},
		{"positionX", s.PositionX}, {"positionY", s.PositionY}, {"positionZ", s.PositionZ},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeInvalidSettings, "%s must be finite", f.name)
		}
	}

	total := 0.0
	for i, g := range s.groups() {
		if _, err := palette.ParseHex(g.fill, g.fillAlpha); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSettings, err, "group %d fill", i+1)
		}
		if _, err := palette.ParseHex(g.stroke, g.strokeAlpha); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSettings, err, "group %d stroke", i+1)
		}
		if g.fillAlpha < 0 || g.fillAlpha > 1 || g.strokeAlpha < 0 || g.strokeAlpha > 1 {
			return errors.New(errors.ErrCodeInvalidSettings, "group %d alpha must be in [0, 1]", i+1)
		}
		if g.frequency < 0 || math.IsNaN(g.frequency) || math.IsInf(g.frequency, 0) {
			return errors.New(errors.ErrCodeInvalidSettings, "group %d frequency must be non-negative, got %g", i+1, g.frequency)
		}
		total += g.frequency
	}
	if total <= 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "at least one group frequency must be positive")
	}

	if s.AnimationSpeed <= 0 || math.IsNaN(s.AnimationSpeed) || math.IsInf(s.AnimationSpeed, 0) {
		return errors.New(errors.ErrCodeInvalidSettings, "animation speed must be positive, got %g", s.AnimationSpeed)
	}
	return nil
}
