package engine

import "sync/atomic"

// Clock is the monotonic logical tick counter.
//
// Every tick is stamped with a strictly increasing number from this
// clock. This ensures:
// - Deterministic ordering (no wall-clock race conditions)
// - A replayed run produces identical tick numbering
// - "Visible starting next tick" has an exact meaning
//
// Thread-safety: Clock is safe for concurrent reads (atomic
// operations), though the scheduler's single-threaded design means
// only one goroutine calls Next().
type Clock struct {
	tick atomic.Int64
}

// NewClock creates a clock starting at 0; the first tick is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific tick. Used when
// resuming a run from a snapshot.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.tick.Store(start)
	return c
}

// Next returns the next tick number and advances the clock.
func (c *Clock) Next() int64 {
	return c.tick.Add(1)
}

// Current returns the current tick number without advancing.
func (c *Clock) Current() int64 {
	return c.tick.Load()
}
