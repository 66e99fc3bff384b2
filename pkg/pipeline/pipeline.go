// Package pipeline drives a live shape grid against a render adapter.
//
// A [Runner] owns everything between a settings record and the adapter: the
// generated units, one stroke and one fill mesh per unit (each with its own
// geometry and material), the morph controller, the rotation animation and
// the frame scheduler they run on. Callers hand it complete settings
// snapshots; the runner diffs each one against the previous snapshot and
// does the least work the difference requires:
//
//  1. Structural change: release every resource, regenerate, reassign colors
//  2. Pose change: recompute every pose from its baseline
//  3. Group change (frequencies or seed): reassign color groups
//  4. Color change: refresh materials on the next frame
//
// # Usage
//
//	sc := scene.New()
//	r := pipeline.New(sc, pipeline.Options{Logger: logger})
//	if err := r.Load(ctx, settings.Default()); err != nil {
//	    return err
//	}
//	r.ToggleAnimation(ctx)
//	for r.Animating() {
//	    r.Advance(<-ticker.C)
//	}
//	r.Close()
//
// [Snapshotter] renders one-shot snapshots (JSON, SVG, PNG, PDF, DOT) of a
// settings record through an in-memory scene, with caching.
//
// A Runner is not safe for concurrent use. Drive it from one goroutine.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/animate"
	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/frame"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFPS is the frame rate interactive drivers tick at.
	DefaultFPS = 60

	// DefaultScale is the PNG rasterization scale.
	DefaultScale = 2.0
)

// Format constants for snapshot outputs.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
)

// Engine constants select how SVG and PNG snapshots are drawn.
const (
	// EngineNative draws with the built-in orthographic SVG renderer.
	EngineNative = "native"
	// EngineGraphviz lays out pinned nodes with Graphviz neato.
	EngineGraphviz = "graphviz"
)

// ValidFormats lists the supported snapshot formats.
var ValidFormats = []string{FormatJSON, FormatSVG, FormatPNG, FormatPDF, FormatDOT}

// ValidEngines lists the supported snapshot engines.
var ValidEngines = []string{EngineNative, EngineGraphviz}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, ValidFormats...); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configure a Runner. The zero value is usable.
type Options struct {
	// Scheduler runs animation and debounced color refreshes. It may be
	// shared with other frame users. A new one is created when nil.
	Scheduler *frame.Scheduler

	// Clock is the animation time source. Defaults to the system clock.
	Clock animate.Clock

	// BaseDuration is the sweep duration at speed 1.
	BaseDuration time.Duration

	// MorphThreshold is the morph trigger window in radians.
	MorphThreshold float64

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Scheduler == nil {
		o.Scheduler = frame.NewScheduler()
	}
	if o.Clock == nil {
		o.Clock = animate.SystemClock{}
	}
	if o.BaseDuration <= 0 {
		o.BaseDuration = animate.DefaultBaseDuration
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
