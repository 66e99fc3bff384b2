package settings

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/palette"
	"github.com/matzehuels/shapegrid/pkg/transform"
)

// Settings is the complete, flat settings record.
type Settings struct {
	// Grid structure
	Rows             int        `json:"rows" toml:"rows"`
	Cols             int        `json:"cols" toml:"cols"`
	RowSpacing       float64    `json:"rowSpacing" toml:"rowSpacing"`
	ColSpacing       float64    `json:"colSpacing" toml:"colSpacing"`
	Shape            grid.Shape `json:"shape" toml:"shape"`
	CircleRadius     float64    `json:"circleRadius" toml:"circleRadius"`
	RectWidth        float64    `json:"rectWidth" toml:"rectWidth"`
	RectHeight       float64    `json:"rectHeight" toml:"rectHeight"`
	WidthScaling     bool       `json:"widthScaling" toml:"widthScaling"`
	WidthScaleFactor float64    `json:"widthScaleFactor" toml:"widthScaleFactor"`
	BorderThickness  float64    `json:"borderThickness" toml:"borderThickness"`

	// Transform
	WrapAxis  transform.Axis `json:"wrapAxis" toml:"wrapAxis"`
	Curvature float64        `json:"curvature" toml:"curvature"`
	Radius    float64        `json:"radius" toml:"radius"`
	RotationX float64        `json:"rotationX" toml:"rotationX"`
	RotationY float64        `json:"rotationY" toml:"rotationY"`
	RotationZ float64        `json:"rotationZ" toml:"rotationZ"`
	PositionX float64        `json:"positionX" toml:"positionX"`
	PositionY float64        `json:"positionY" toml:"positionY"`
	PositionZ float64        `json:"positionZ" toml:"positionZ"`

	// Color group 1
	Group1Fill        string  `json:"group1Fill" toml:"group1Fill"`
	Group1FillAlpha   float64 `json:"group1FillAlpha" toml:"group1FillAlpha"`
	Group1Stroke      string  `json:"group1Stroke" toml:"group1Stroke"`
	Group1StrokeAlpha float64 `json:"group1StrokeAlpha" toml:"group1StrokeAlpha"`
	Group1Frequency   float64 `json:"group1Frequency" toml:"group1Frequency"`
	Group1SyncColors  bool    `json:"group1SyncColors" toml:"group1SyncColors"`

	// Color group 2
	Group2Fill        string  `json:"group2Fill" toml:"group2Fill"`
	Group2FillAlpha   float64 `json:"group2FillAlpha" toml:"group2FillAlpha"`
	Group2Stroke      string  `json:"group2Stroke" toml:"group2Stroke"`
	Group2StrokeAlpha float64 `json:"group2StrokeAlpha" toml:"group2StrokeAlpha"`
	Group2Frequency   float64 `json:"group2Frequency" toml:"group2Frequency"`
	Group2SyncColors  bool    `json:"group2SyncColors" toml:"group2SyncColors"`

	// Color group 3
	Group3Fill        string  `json:"group3Fill" toml:"group3Fill"`
	Group3FillAlpha   float64 `json:"group3FillAlpha" toml:"group3FillAlpha"`
	Group3Stroke      string  `json:"group3Stroke" toml:"group3Stroke"`
	Group3StrokeAlpha float64 `json:"group3StrokeAlpha" toml:"group3StrokeAlpha"`
	Group3Frequency   float64 `json:"group3Frequency" toml:"group3Frequency"`
	Group3SyncColors  bool    `json:"group3SyncColors" toml:"group3SyncColors"`

	// ColorSeed seeds group assignment. Nil means "not chosen yet"; see
	// EnsureSeed.
	ColorSeed *int64 `json:"colorSeed,omitempty" toml:"colorSeed,omitempty"`

	// AnimationSpeed divides the base sweep duration.
	AnimationSpeed float64 `json:"animationSpeed" toml:"animationSpeed"`
}

// Default returns the settings used when nothing else is specified.
func Default() Settings {
	return Settings{
		Rows:             10,
		Cols:             10,
		RowSpacing:       1.2,
		ColSpacing:       1.2,
		Shape:            grid.Disc,
		CircleRadius:     0.5,
		RectWidth:        0.8,
		RectHeight:       0.8,
		WidthScaling:     false,
		WidthScaleFactor: 2,
		BorderThickness:  0.1,

		WrapAxis:  transform.AxisY,
		Curvature: 0,
		Radius:    5,

		Group1Fill:        "#e63946",
		Group1FillAlpha:   1,
		Group1Stroke:      "#1d3557",
		Group1StrokeAlpha: 1,
		Group1Frequency:   0.5,

		Group2Fill:        "#f1faee",
		Group2FillAlpha:   1,
		Group2Stroke:      "#457b9d",
		Group2StrokeAlpha: 1,
		Group2Frequency:   0.3,

		Group3Fill:        "#a8dadc",
		Group3FillAlpha:   1,
		Group3Stroke:      "#1d3557",
		Group3StrokeAlpha: 1,
		Group3Frequency:   0.2,

		AnimationSpeed: 1,
	}
}

// GridConfig returns the structural part of s.
func (s Settings) GridConfig() grid.Config {
	return grid.Config{
		Rows:             s.Rows,
		Cols:             s.Cols,
		RowSpacing:       s.RowSpacing,
		ColSpacing:       s.ColSpacing,
		Shape:            s.Shape,
		CircleRadius:     s.CircleRadius,
		RectWidth:        s.RectWidth,
		RectHeight:       s.RectHeight,
		WidthScaling:     s.WidthScaling,
		WidthScaleFactor: s.WidthScaleFactor,
		BorderThickness:  s.BorderThickness,
	}
}

// TransformState returns the pose-affecting part of s.
func (s Settings) TransformState() transform.State {
	return transform.State{
		Axis:      s.WrapAxis,
		Curvature: s.Curvature,
		Radius:    s.Radius,
		RotationX: s.RotationX,
		RotationY: s.RotationY,
		RotationZ: s.RotationZ,
		Position:  grid.Vec3{X: s.PositionX, Y: s.PositionY, Z: s.PositionZ},
	}
}

// groupFields is a view of one color group's fields.
type groupFields struct {
	fill, stroke           string
	fillAlpha, strokeAlpha float64
	frequency              float64
	sync                   bool
}

func (s Settings) groups() [palette.GroupCount]groupFields {
	return [palette.GroupCount]groupFields{
		{s.Group1Fill, s.Group1Stroke, s.Group1FillAlpha, s.Group1StrokeAlpha, s.Group1Frequency, s.Group1SyncColors},
		{s.Group2Fill, s.Group2Stroke, s.Group2FillAlpha, s.Group2StrokeAlpha, s.Group2Frequency, s.Group2SyncColors},
		{s.Group3Fill, s.Group3Stroke, s.Group3FillAlpha, s.Group3StrokeAlpha, s.Group3Frequency, s.Group3SyncColors},
	}
}

// Palette returns the color groups of s. It fails only on malformed hex
// colors, which Validate also reports.
func (s Settings) Palette() (palette.Palette, error) {
	var p palette.Palette
	for i, g := range s.groups() {
		fill, err := palette.ParseHex(g.fill, g.fillAlpha)
		if err != nil {
			return p, err
		}
		stroke, err := palette.ParseHex(g.stroke, g.strokeAlpha)
		if err != nil {
			return p, err
		}
		p[i] = palette.Group{Fill: fill, Stroke: stroke, Frequency: g.frequency, SyncColors: g.sync}
	}
	return p, nil
}

// Frequencies returns the three group frequencies.
func (s Settings) Frequencies() [palette.GroupCount]float64 {
	return [palette.GroupCount]float64{s.Group1Frequency, s.Group2Frequency, s.Group3Frequency}
}

// Seed returns the color seed and whether one is set.
func (s Settings) Seed() (int64, bool) {
	if s.ColorSeed == nil {
		return 0, false
	}
	return *s.ColorSeed, true
}

// WithSeed returns a copy of s carrying seed.
func (s Settings) WithSeed(seed int64) Settings {
	s.ColorSeed = &seed
	return s
}

// EnsureSeed sets ColorSeed to a random value when it is missing and
// returns the seed in effect. The substitution is logged at info level.
func (s *Settings) EnsureSeed(logger *log.Logger) int64 {
	if seed, ok := s.Seed(); ok {
		return seed
	}
	seed := palette.RandomSeed()
	s.ColorSeed = &seed
	if logger != nil {
		logger.Info("no color seed in settings, generated one", "seed", seed)
	}
	return seed
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	if s.ColorSeed != nil {
		seed := *s.ColorSeed
		s.ColorSeed = &seed
	}
	return s
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
