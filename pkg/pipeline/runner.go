package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/animate"
	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/frame"
	"github.com/matzehuels/shapegrid/pkg/grid"
	"github.com/matzehuels/shapegrid/pkg/morph"
	"github.com/matzehuels/shapegrid/pkg/observability"
	"github.com/matzehuels/shapegrid/pkg/palette"
	"github.com/matzehuels/shapegrid/pkg/render"
	"github.com/matzehuels/shapegrid/pkg/settings"
	"github.com/matzehuels/shapegrid/pkg/transform"
)

// Runner keeps a shape grid in sync with a render adapter.
type Runner struct {
	adapter render.Adapter
	sched   *frame.Scheduler
	logger  *log.Logger

	settings settings.Settings
	loaded   bool
	cfg      grid.Config
	palette  palette.Palette

	units   []grid.Unit
	visuals []visual

	morph  *morph.Controller
	driver *animate.Driver
	colors *frame.Debouncer

	sweepStart time.Time
}

// New returns a runner that has not loaded any settings yet.
func New(adapter render.Adapter, opts Options) *Runner {
	opts.setDefaults()
	r := &Runner{
		adapter: adapter,
		sched:   opts.Scheduler,
		logger:  opts.Logger,
		morph:   morph.New(grid.Disc, opts.MorphThreshold),
	}
	r.driver = animate.NewDriver(r.sched, animate.Hooks{
		Observe: r.observeAngle,
		Commit:  r.commitAngle,
		Done:    r.sweepDone,
	}, animate.Options{
		BaseDuration: opts.BaseDuration,
		Clock:        opts.Clock,
		Logger:       opts.Logger,
	})
	r.colors = frame.NewDebouncer(r.sched, func(time.Time) { r.refreshColors() })
	return r
}

// Scheduler returns the frame scheduler the runner animates on.
func (r *Runner) Scheduler() *frame.Scheduler { return r.sched }

// Settings returns a copy of the current settings snapshot, including the
// live rotationY while animating.
func (r *Runner) Settings() settings.Settings { return r.settings.Clone() }

// Units returns a copy of the current units.
func (r *Runner) Units() []grid.Unit {
	out := make([]grid.Unit, len(r.units))
	copy(out, r.units)
	return out
}

// Dominant returns the shape kind the next morph will replace.
func (r *Runner) Dominant() grid.Shape { return r.morph.Dominant() }

// Animating reports whether a rotation sweep is running.
func (r *Runner) Animating() bool { return r.driver.Running() }

// Load replaces the current state with s. It always regenerates the grid
// and reseeds color assignment with the record's seed. A record without a
// seed gets a generated one, which is logged and kept in Settings.
func (r *Runner) Load(ctx context.Context, s settings.Settings) error {
	if err := settings.Validate(s); err != nil {
		return err
	}
	s = s.Clone()
	s.EnsureSeed(r.logger)
	p, err := s.Palette()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "palette")
	}

	r.driver.Cancel()
	r.settings, r.palette, r.loaded = s, p, true
	r.regenerate(ctx)
	return nil
}

// Apply moves to a new settings snapshot and returns what changed. A
// snapshot without a seed keeps the current seed.
func (r *Runner) Apply(ctx context.Context, next settings.Settings) (settings.Change, error) {
	if !r.loaded {
		if err := r.Load(ctx, next); err != nil {
			return 0, err
		}
		return settings.Structural, nil
	}
	if err := settings.Validate(next); err != nil {
		return 0, err
	}
	next = next.Clone()
	if _, ok := next.Seed(); !ok {
		if seed, ok := r.settings.Seed(); ok {
			next.ColorSeed = &seed
		}
	}
	p, err := next.Palette()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidSettings, err, "palette")
	}

	change := settings.Diff(r.settings, next)
	r.settings, r.palette = next, p
	if change == 0 {
		return 0, nil
	}
	r.logger.Debug("applying settings", "change", change)

	if change.Has(settings.Structural) {
		// Shape morphs and group assignment restart from scratch.
		r.driver.Cancel()
		r.regenerate(ctx)
		return change, nil
	}
	if change.Has(settings.Groups) {
		r.assignGroups()
		r.colors.Trigger()
	}
	if change.Has(settings.Color) {
		r.colors.Trigger()
	}
	if change.Has(settings.Pose) {
		r.updatePoses()
	}
	return change, nil
}

// ToggleAnimation starts a rotation sweep, or cancels the running one. It
// reports whether a sweep is running afterwards.
func (r *Runner) ToggleAnimation(ctx context.Context) bool {
	if !r.loaded {
		return false
	}
	if r.driver.Running() {
		r.driver.Cancel()
		return false
	}
	r.morph.BeginSweep(r.settings.RotationY)
	r.sweepStart = time.Now()
	r.driver.Start(r.settings.RotationY, r.settings.AnimationSpeed)
	observability.Pipeline().OnAnimationStart(ctx, r.settings.AnimationSpeed, r.driver.SweepDuration(r.settings.AnimationSpeed))
	r.logger.Info("rotation started", "speed", r.settings.AnimationSpeed, "duration", r.driver.SweepDuration(r.settings.AnimationSpeed))
	return true
}

// Advance runs one frame at now. It returns the number of callbacks run.
func (r *Runner) Advance(now time.Time) int {
	return r.sched.Tick(now)
}

// Close cancels the runner's pending frame work and releases every adapter
// resource. Callbacks other owners queued on a shared scheduler are left
// alone. The runner can be reused by calling Load.
func (r *Runner) Close() {
	r.driver.Cancel()
	r.colors.Cancel()
	r.releaseAll()
	r.units = nil
	r.loaded = false
}

// =============================================================================
// Generation
// =============================================================================

func (r *Runner) regenerate(ctx context.Context) {
	start := time.Now()
	r.colors.Cancel()
	r.releaseAll()

	r.cfg = r.settings.GridConfig()
	r.units = grid.Generate(r.cfg)
	r.assignGroups()
	r.morph.Reset(r.cfg.Shape)

	r.visuals = make([]visual, len(r.units))
	for i := range r.units {
		r.visuals[i] = r.createVisual(r.units[i])
	}
	r.updatePoses()

	d := time.Since(start)
	observability.Pipeline().OnGenerate(ctx, len(r.units), d)
	r.logger.Debug("generated grid",
		"rows", r.cfg.Rows,
		"cols", r.cfg.Cols,
		"units", len(r.units),
		"duration", d)
}

func (r *Runner) assignGroups() {
	seed, _ := r.settings.Seed()
	palette.Assign(r.units, r.settings.Frequencies(), seed)
}

// =============================================================================
// Poses
// =============================================================================

func (r *Runner) updatePoses() {
	state := r.settings.TransformState()
	for i, u := range r.units {
		p := transform.ComputePose(u, state, r.cfg)
		for _, m := range r.visuals[i].meshes {
			r.adapter.SetPosition(m, p.Position.X, p.Position.Y, p.Position.Z)
			r.adapter.SetRotation(m, p.Rotation.X, p.Rotation.Y, p.Rotation.Z)
		}
	}
}

// =============================================================================
// Animation hooks
// =============================================================================

func (r *Runner) observeAngle(angle float64) {
	ev, ok := r.morph.Observe(angle)
	if !ok {
		return
	}
	affected := r.swapShapes(ev.From, ev.To)
	observability.Pipeline().OnMorph(context.Background(), ev.From.String(), ev.To.String(), affected)
	r.logger.Debug("shape morph", "from", ev.From, "to", ev.To, "angle", ev.Angle, "units", affected)
}

func (r *Runner) commitAngle(angle float64) {
	r.settings.RotationY = angle
	r.updatePoses()
}

func (r *Runner) sweepDone(completed bool) {
	observability.Pipeline().OnAnimationStop(context.Background(), completed)
	if completed {
		r.logger.Info("rotation finished", "elapsed", time.Since(r.sweepStart).Round(time.Millisecond))
	} else {
		r.logger.Info("rotation stopped", "rotationY", r.settings.RotationY)
	}
}
