package grid

// ScaledWidth returns the width of an elongated shape in column col of a
// grid with cols columns. The width ramps linearly from base at column 0 to
// base*factor at the last column. It returns base unchanged when scaling is
// disabled or the grid has a single column.
func ScaledWidth(base float64, col, cols int, factor float64, enabled bool) float64 {
	if !enabled || cols <= 1 {
		return base
	}
	t := float64(col) / float64(cols-1)
	return base * (1 + (factor-1)*t)
}

// Dimensions is the resolved size of one unit's geometry. Fill and stroke
// geometry are both built from the same Dimensions value.
type Dimensions struct {
	Shape  Shape
	Radius float64
	Width  float64
	Height float64
	Border float64
}

// DimensionsFor resolves the geometry size of shape s in column col.
// Width scaling only affects quads.
func DimensionsFor(cfg Config, s Shape, col int) Dimensions {
	d := Dimensions{Shape: s, Border: cfg.BorderThickness}
	switch s {
	case Quad:
		d.Width = ScaledWidth(cfg.RectWidth, col, cfg.Cols, cfg.WidthScaleFactor, cfg.WidthScaling)
		d.Height = cfg.RectHeight
	default:
		d.Radius = cfg.CircleRadius
		d.Width = 2 * cfg.CircleRadius
		d.Height = 2 * cfg.CircleRadius
	}
	return d
}
