package transform

import (
	"math"
	"testing"

	"github.com/matzehuels/shapegrid/pkg/grid"
)

const eps = 1e-9

var testConfig = grid.Config{Rows: 6, Cols: 10, RowSpacing: 1.5, ColSpacing: 2}

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func nearVec(a, b grid.Vec3) bool { return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z) }

func TestComputePoseIdentityAtZeroCurvature(t *testing.T) {
	for _, axis := range []Axis{AxisX, AxisY} {
		s := State{Axis: axis, Curvature: 0, Radius: 7}
		for _, u := range grid.Generate(testConfig) {
			p := ComputePose(u, s, testConfig)
			if p.Position != u.Baseline {
				t.Errorf("axis %v: position = %v, want baseline %v", axis, p.Position, u.Baseline)
			}
			if p.Rotation != (grid.Vec3{}) {
				t.Errorf("axis %v: rotation = %v, want zero", axis, p.Rotation)
			}
		}
	}
}

func TestComputePoseNoDrift(t *testing.T) {
	s := State{Axis: AxisY, Curvature: 0.73, Radius: 5, RotationX: 0.2, RotationY: 1.1, RotationZ: -0.4,
		Position: grid.Vec3{X: 1, Y: 2, Z: 3}}
	units := grid.Generate(testConfig)

	first := ComputeAll(units, s, testConfig)
	second := ComputeAll(units, s, testConfig)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pose %d drifted: %v then %v", i, first[i], second[i])
		}
	}

	// Moving a parameter away and back restores the pose exactly.
	edited := s
	edited.Curvature = 0.1
	edited.Position.X = -9
	_ = ComputeAll(units, edited, testConfig)
	restored := ComputeAll(units, s, testConfig)
	for i := range first {
		if first[i] != restored[i] {
			t.Fatalf("pose %d not restored: %v vs %v", i, first[i], restored[i])
		}
	}
}

func TestComputePoseFullWrapLiesOnCylinder(t *testing.T) {
	const r = 4.0
	s := State{Axis: AxisY, Curvature: 1, Radius: r}
	for _, u := range grid.Generate(testConfig) {
		p := ComputePose(u, s, testConfig)
		dist := math.Hypot(p.Position.X, p.Position.Z+r)
		if !near(dist, r) {
			t.Errorf("unit (%d,%d) at distance %v from axis, want %v", u.Row, u.Col, dist, r)
		}
		if p.Position.Y != u.Baseline.Y {
			t.Errorf("unit (%d,%d) y changed: %v", u.Row, u.Col, p.Position.Y)
		}
		wantAngle := u.Baseline.X / (float64(testConfig.Cols) * testConfig.ColSpacing) * 2 * math.Pi
		if !near(p.Rotation.Y, wantAngle) {
			t.Errorf("unit (%d,%d) rotation.Y = %v, want %v", u.Row, u.Col, p.Rotation.Y, wantAngle)
		}
	}
}

func TestComputePoseAxisX(t *testing.T) {
	const r = 3.0
	s := State{Axis: AxisX, Curvature: 1, Radius: r, RotationX: 0.5, RotationY: 0.25}
	for _, u := range grid.Generate(testConfig) {
		p := ComputePose(u, s, testConfig)
		if p.Position.X != u.Baseline.X {
			t.Errorf("x changed for axis X wrap: %v -> %v", u.Baseline.X, p.Position.X)
		}
		if dist := math.Hypot(p.Position.Y, p.Position.Z+r); !near(dist, r) {
			t.Errorf("distance from axis = %v, want %v", dist, r)
		}
		angle := u.Baseline.Y / (float64(testConfig.Rows) * testConfig.RowSpacing) * 2 * math.Pi
		if !near(p.Rotation.X, 0.5-angle) {
			t.Errorf("rotation.X = %v, want %v", p.Rotation.X, 0.5-angle)
		}
		if p.Rotation.Y != 0.25 {
			t.Errorf("rotation.Y = %v, want manual 0.25", p.Rotation.Y)
		}
	}
}

func TestComputePoseRotationComposition(t *testing.T) {
	u := grid.Unit{Baseline: grid.Vec3{X: 3, Y: 1}}
	s := State{Axis: AxisY, Curvature: 0.5, Radius: 10, RotationX: 0.1, RotationY: 0.2, RotationZ: 0.3}

	p := ComputePose(u, s, testConfig)
	angle := 3.0 / 20 * 2 * math.Pi * 0.5
	want := grid.Vec3{X: 0.1, Y: angle + 0.2, Z: 0.3}
	if !nearVec(p.Rotation, want) {
		t.Errorf("rotation = %v, want %v", p.Rotation, want)
	}
}

func TestComputePoseTranslation(t *testing.T) {
	u := grid.Unit{Baseline: grid.Vec3{X: 1, Y: 2}}
	s := State{Position: grid.Vec3{X: 10, Y: -1, Z: 0.5}}
	p := ComputePose(u, s, testConfig)
	if want := (grid.Vec3{X: 11, Y: 1, Z: 0.5}); p.Position != want {
		t.Errorf("position = %v, want %v", p.Position, want)
	}
}

func TestParseAxis(t *testing.T) {
	if a, err := ParseAxis("X"); err != nil || a != AxisX {
		t.Errorf("ParseAxis(X) = %v, %v", a, err)
	}
	if a, err := ParseAxis("y"); err != nil || a != AxisY {
		t.Errorf("ParseAxis(y) = %v, %v", a, err)
	}
	if _, err := ParseAxis("z"); err == nil {
		t.Error("ParseAxis(z) should fail")
	}
}
