// Package frame provides a cooperative, single-threaded frame scheduler.
//
// Everything that mutates the live grid (the render loop, the rotation
// animation, debounced color refreshes) runs as a frame callback. A driver
// such as a terminal UI tick or a test calls [Scheduler.Tick] once per frame
// with the frame timestamp; callbacks requested while a tick is running are
// deferred to the next tick.
//
// Every request returns a [Handle] that can be cancelled. Owners must cancel
// their outstanding handles when they are torn down so that no orphaned
// callback mutates state after disposal.
//
// A Scheduler is not safe for concurrent use. All calls must come from the
// goroutine that drives Tick.
package frame

import "time"

// Callback runs once on the frame it was scheduled for.
type Callback func(now time.Time)

// Handle identifies a pending callback. The zero Handle is never issued.
type Handle uint64

// Scheduler queues per-frame callbacks.
type Scheduler struct {
	next    Handle
	pending map[Handle]Callback
	order   []Handle
	frame   uint64
	last    time.Time
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[Handle]Callback)}
}

// Request schedules fn for the next tick and returns its handle.
func (s *Scheduler) Request(fn Callback) Handle {
	s.next++
	h := s.next
	s.pending[h] = fn
	s.order = append(s.order, h)
	return h
}

// Cancel drops a pending callback. Cancelling an already-run or unknown
// handle is a no-op. It reports whether a callback was dropped.
func (s *Scheduler) Cancel(h Handle) bool {
	if _, ok := s.pending[h]; !ok {
		return false
	}
	delete(s.pending, h)
	return true
}

// Tick runs every callback that was pending when Tick was called, in request
// order, and returns how many ran.
func (s *Scheduler) Tick(now time.Time) int {
	s.frame++
	s.last = now

	batch := s.order
	s.order = nil

	ran := 0
	for _, h := range batch {
		fn, ok := s.pending[h]
		if !ok {
			continue
		}
		delete(s.pending, h)
		fn(now)
		ran++
	}
	return ran
}

// Pending returns the number of callbacks waiting for the next tick.
func (s *Scheduler) Pending() int { return len(s.pending) }

// Frame returns the number of ticks run so far.
func (s *Scheduler) Frame() uint64 { return s.frame }

// LastTick returns the timestamp of the most recent tick.
func (s *Scheduler) LastTick() time.Time { return s.last }

// CancelAll drops every pending callback.
func (s *Scheduler) CancelAll() {
	clear(s.pending)
	s.order = nil
}
