package morph

import (
	"math"

	"github.com/matzehuels/shapegrid/pkg/grid"
)

// DefaultThreshold is the angular distance, in radians, from a boundary
// within which a morph triggers.
const DefaultThreshold = 0.1

const twoPi = 2 * math.Pi

// boundaries are the angles at which the grid is edge-on.
var boundaries = [2]float64{math.Pi / 2, 3 * math.Pi / 2}

// Event describes one triggered morph.
type Event struct {
	From  grid.Shape
	To    grid.Shape
	Angle float64 // normalized angle in [0, 2π)
}

// Controller tracks the dominant shape kind and the last trigger angle.
// It is not safe for concurrent use.
type Controller struct {
	threshold float64
	dominant  grid.Shape

	last      float64
	triggered bool

	prev    float64
	hasPrev bool
}

// New returns a controller whose dominant kind is initial. A non-positive
// threshold selects DefaultThreshold.
func New(initial grid.Shape, threshold float64) *Controller {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Controller{threshold: threshold, dominant: initial}
}

// Dominant returns the current dominant shape kind.
func (c *Controller) Dominant() grid.Shape { return c.dominant }

// Threshold returns the trigger threshold in radians.
func (c *Controller) Threshold() float64 { return c.threshold }

// Reset sets the dominant kind and clears the watermark. It is called when
// the grid is regenerated.
func (c *Controller) Reset(initial grid.Shape) {
	c.dominant = initial
	c.triggered = false
	c.hasPrev = false
}

// BeginSweep records the angle an animation starts from, so the first frame
// can detect a boundary crossed since the start.
func (c *Controller) BeginSweep(angle float64) {
	c.prev = Normalize(angle)
	c.hasPrev = true
}

// Observe feeds the current animated angle. It reports an event and true
// when the dominant kind flipped on this call.
func (c *Controller) Observe(angle float64) (Event, bool) {
	a := Normalize(angle)
	prev, hasPrev := c.prev, c.hasPrev
	c.prev, c.hasPrev = a, true

	if c.nearBoundary(a) {
		if c.triggered && angularDistance(a, c.last) <= 2*c.threshold {
			return Event{}, false
		}
	} else {
		b, ok := crossed(prev, a)
		if !hasPrev || !ok {
			return Event{}, false
		}
		// A coarse frame stepped over the whole window. Skip it if the
		// boundary already fired from inside the window.
		if c.triggered && angularDistance(b, c.last) <= 2*c.threshold {
			return Event{}, false
		}
	}

	ev := Event{From: c.dominant, To: c.dominant.Flip(), Angle: a}
	c.dominant = ev.To
	c.last = a
	c.triggered = true
	return ev, true
}

func (c *Controller) nearBoundary(a float64) bool {
	for _, b := range boundaries {
		if math.Abs(a-b) < c.threshold {
			return true
		}
	}
	return false
}

// crossed reports the boundary a forward step from prev to cur passed, if
// any. Steps of half a turn or more are ambiguous and never count.
func crossed(prev, cur float64) (float64, bool) {
	step := cur - prev
	if step < 0 {
		step += twoPi
	}
	if step == 0 || step >= math.Pi {
		return 0, false
	}
	for _, b := range boundaries {
		d := b - prev
		if d < 0 {
			d += twoPi
		}
		if d > 0 && d <= step {
			return b, true
		}
	}
	return 0, false
}

// Normalize maps an angle into [0, 2π).
func Normalize(angle float64) float64 {
	a := math.Mod(angle, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}

// angularDistance is the shortest distance between two normalized angles.
func angularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return min(d, twoPi-d)
}
