package grid

import (
	"math"
	"testing"
)

func TestScaledWidthIdentity(t *testing.T) {
	for col := range 10 {
		if got := ScaledWidth(2, col, 10, 3, false); got != 2 {
			t.Errorf("disabled: ScaledWidth(col=%d) = %v, want 2", col, got)
		}
		if got := ScaledWidth(2, col, 10, 1, true); got != 2 {
			t.Errorf("factor 1: ScaledWidth(col=%d) = %v, want 2", col, got)
		}
	}
	if got := ScaledWidth(2, 0, 1, 5, true); got != 2 {
		t.Errorf("single column: ScaledWidth = %v, want 2", got)
	}
}

func TestScaledWidthRamp(t *testing.T) {
	tests := []struct {
		col  int
		want float64
	}{
		{0, 1},
		{2, 2},
		{4, 3},
	}
	for _, tt := range tests {
		if got := ScaledWidth(1, tt.col, 5, 3, true); math.Abs(got-tt.want) > eps {
			t.Errorf("ScaledWidth(col=%d) = %v, want %v", tt.col, got, tt.want)
		}
	}
}

func TestDimensionsFor(t *testing.T) {
	cfg := Config{
		Cols: 3, CircleRadius: 0.5, RectWidth: 1, RectHeight: 0.4,
		WidthScaling: true, WidthScaleFactor: 2, BorderThickness: 0.1,
	}

	d := DimensionsFor(cfg, Quad, 2)
	if d.Width != 2 || d.Height != 0.4 || d.Border != 0.1 {
		t.Errorf("quad dims = %+v", d)
	}

	d = DimensionsFor(cfg, Disc, 2)
	if d.Radius != 0.5 || d.Width != 1 {
		t.Errorf("disc dims should ignore width scaling, got %+v", d)
	}
}
