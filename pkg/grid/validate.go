package grid

import (
	"fmt"
	"math"
)

// Validate reports the first structural problem in cfg. Generate assumes a
// config that passed Validate.
func Validate(cfg Config) error {
	switch {
	case cfg.Rows < 1:
		return fmt.Errorf("rows must be at least 1, got %d", cfg.Rows)
	case cfg.Cols < 1:
		return fmt.Errorf("cols must be at least 1, got %d", cfg.Cols)
	case !positive(cfg.RowSpacing):
		return fmt.Errorf("row spacing must be positive, got %g", cfg.RowSpacing)
	case !positive(cfg.ColSpacing):
		return fmt.Errorf("column spacing must be positive, got %g", cfg.ColSpacing)
	case cfg.Shape != Disc && cfg.Shape != Quad:
		return fmt.Errorf("unknown shape %v", cfg.Shape)
	case !positive(cfg.CircleRadius):
		return fmt.Errorf("circle radius must be positive, got %g", cfg.CircleRadius)
	case !positive(cfg.RectWidth) || !positive(cfg.RectHeight):
		return fmt.Errorf("rectangle size must be positive, got %gx%g", cfg.RectWidth, cfg.RectHeight)
	case !(cfg.WidthScaleFactor >= 1) || math.IsInf(cfg.WidthScaleFactor, 1):
		return fmt.Errorf("width scale factor must be at least 1, got %g", cfg.WidthScaleFactor)
	case !(cfg.BorderThickness > 0 && cfg.BorderThickness < 0.5):
		return fmt.Errorf("border thickness must be in (0, 0.5), got %g", cfg.BorderThickness)
	}
	return nil
}

// positive reports whether v is finite and greater than zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
