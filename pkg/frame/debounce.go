package frame

import "time"

// Debouncer collapses repeated triggers into a single callback on the next
// frame. Rapid successive edits therefore cost one update per frame rather
// than one per edit.
type Debouncer struct {
	sched   *Scheduler
	fn      Callback
	handle  Handle
	pending bool
}

// NewDebouncer returns a debouncer that runs fn through sched.
func NewDebouncer(sched *Scheduler, fn Callback) *Debouncer {
	return &Debouncer{sched: sched, fn: fn}
}

// Trigger schedules fn for the next frame unless it is already scheduled.
func (d *Debouncer) Trigger() {
	if d.pending {
		return
	}
	d.pending = true
	d.handle = d.sched.Request(func(now time.Time) {
		d.pending = false
		d.fn(now)
	})
}

// Pending reports whether a callback is waiting.
func (d *Debouncer) Pending() bool { return d.pending }

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	if d.pending {
		d.sched.Cancel(d.handle)
		d.pending = false
	}
}
