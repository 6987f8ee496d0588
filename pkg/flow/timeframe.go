package flow

import "time"

// TimeFrame tracks the kernel's view of time across scheduling cycles.
// It can advance from a clock (UpdateFrom) or by an injected delta
// (UpdateWithDelta) for deterministic runs.
type TimeFrame struct {
	Now   time.Time
	Last  time.Time
	Delta time.Duration
}

// NewTimeFrame returns a frame anchored at the given instant with zero delta.
func NewTimeFrame(now time.Time) TimeFrame {
	return TimeFrame{Now: now, Last: now}
}

// UpdateFrom advances the frame to the given instant.
func (f *TimeFrame) UpdateFrom(now time.Time) {
	f.Last = f.Now
	f.Delta = now.Sub(f.Now)
	f.Now = now
}

// UpdateWithDelta advances the frame by an explicit delta, independent of
// any clock.
func (f *TimeFrame) UpdateWithDelta(d time.Duration) {
	f.Last = f.Now
	f.Delta = d
	f.Now = f.Last.Add(d)
}
