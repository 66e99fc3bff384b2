package grid

// Generate lays out cfg.Rows*cfg.Cols units in row-major order, centered on
// the origin. Every unit starts with color group 0 and cfg.Shape.
func Generate(cfg Config) []Unit {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil
	}

	totalWidth := float64(cfg.Cols-1) * cfg.ColSpacing
	totalHeight := float64(cfg.Rows-1) * cfg.RowSpacing

	units := make([]Unit, 0, cfg.Count())
	for row := range cfg.Rows {
		y := float64(row)*cfg.RowSpacing - totalHeight/2
		for col := range cfg.Cols {
			units = append(units, Unit{
				Baseline: Vec3{X: float64(col)*cfg.ColSpacing - totalWidth/2, Y: y},
				Row:      row,
				Col:      col,
				Shape:    cfg.Shape,
			})
		}
	}
	return units
}
