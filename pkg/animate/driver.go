package animate

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/frame"
)

// DefaultBaseDuration is the length of a full sweep at speed 1.
const DefaultBaseDuration = 4 * time.Second

// Clock supplies the current time. Tests substitute a fake clock that is
// kept in step with the timestamps passed to frame.Scheduler.Tick.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Hooks receive the output of a sweep. Any hook may be nil.
type Hooks struct {
	// Observe sees every interpolated angle before it is committed.
	Observe func(angle float64)

	// Commit writes the interpolated angle as the new rotationY.
	Commit func(angle float64)

	// Done is called once per sweep; completed is false when the sweep was
	// cancelled.
	Done func(completed bool)
}

// Options configure a Driver.
type Options struct {
	BaseDuration time.Duration
	Clock        Clock
	Logger       *log.Logger
}

// sweep is the state of one running animation.
type sweep struct {
	start    float64
	target   float64
	duration time.Duration
	began    time.Time
	handle   frame.Handle
}

// Driver runs rotation sweeps on a frame scheduler. It is not safe for
// concurrent use.
type Driver struct {
	sched  *frame.Scheduler
	hooks  Hooks
	base   time.Duration
	clock  Clock
	logger *log.Logger

	current *sweep
	last    float64
}

// NewDriver returns an idle driver.
func NewDriver(sched *frame.Scheduler, hooks Hooks, opts Options) *Driver {
	if opts.BaseDuration <= 0 {
		opts.BaseDuration = DefaultBaseDuration
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Driver{
		sched:  sched,
		hooks:  hooks,
		base:   opts.BaseDuration,
		clock:  opts.Clock,
		logger: opts.Logger,
	}
}

// SweepDuration returns the wall-clock length of a sweep at speed.
// Non-positive speeds are treated as 1.
func (d *Driver) SweepDuration(speed float64) time.Duration {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = 1
	}
	return time.Duration(float64(d.base) / speed)
}

// Running reports whether a sweep is in progress.
func (d *Driver) Running() bool { return d.current != nil }

// Angle returns the most recently committed angle.
func (d *Driver) Angle() float64 { return d.last }

// Toggle starts a sweep from rotationY when idle, or cancels the running
// sweep. It reports whether a sweep is running afterwards.
func (d *Driver) Toggle(rotationY, speed float64) bool {
	if d.current != nil {
		d.Cancel()
		return false
	}
	d.Start(rotationY, speed)
	return true
}

// Start begins a sweep from rotationY to rotationY+2π. A running sweep is
// cancelled first.
func (d *Driver) Start(rotationY, speed float64) {
	d.Cancel()
	s := &sweep{
		start:    rotationY,
		target:   rotationY + 2*math.Pi,
		duration: d.SweepDuration(speed),
		began:    d.clock.Now(),
	}
	d.current = s
	d.last = rotationY
	s.handle = d.sched.Request(d.step)
	d.logger.Debug("rotation sweep started", "from", s.start, "duration", s.duration)
}

// Cancel stops the running sweep, leaving the angle where it is.
func (d *Driver) Cancel() {
	s := d.current
	if s == nil {
		return
	}
	d.sched.Cancel(s.handle)
	d.current = nil
	d.logger.Debug("rotation sweep cancelled", "angle", d.last)
	if d.hooks.Done != nil {
		d.hooks.Done(false)
	}
}

func (d *Driver) step(now time.Time) {
	s := d.current
	if s == nil {
		return
	}

	progress := 1.0
	if s.duration > 0 {
		progress = min(float64(now.Sub(s.began))/float64(s.duration), 1)
	}
	progress = max(progress, 0)
	angle := Lerp(s.start, s.target, EaseInOutCubic(progress))

	if d.hooks.Observe != nil {
		d.hooks.Observe(angle)
	}
	d.last = angle
	if d.hooks.Commit != nil {
		d.hooks.Commit(angle)
	}
	if d.current != s {
		// A hook cancelled or restarted the sweep.
		return
	}

	if progress >= 1 {
		d.current = nil
		d.logger.Debug("rotation sweep finished", "angle", angle)
		if d.hooks.Done != nil {
			d.hooks.Done(true)
		}
		return
	}
	s.handle = d.sched.Request(d.step)
}
