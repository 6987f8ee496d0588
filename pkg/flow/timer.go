package flow

import (
	"context"
	"sync"
	"time"
)

// Timer is a one-shot deadline generator. The start instant is latched on
// the first Step, not at construction, so a timer attached deep inside a
// Sequence only begins counting once the sequence reaches it.
type Timer struct {
	Base
	duration time.Duration
	clock    Clock

	mu      sync.Mutex
	start   time.Time
	elapsed func()
}

// NewTimer returns a Timer that completes once the given duration has
// passed, measured from its first Step.
func NewTimer(duration time.Duration, opts ...Option) *Timer {
	o := buildOptions(opts)
	return &Timer{
		Base:     newBase("timer", o),
		duration: duration,
		clock:    o.clockOrReal(),
	}
}

// SetElapsedFunc installs the callback invoked when the deadline is first
// observed. It must be set before the deadline is reached to be observed,
// and fires at most once, synchronously within the Step that observes the
// deadline and strictly before the timer reports completed.
func (t *Timer) SetElapsedFunc(fn func()) {
	t.mu.Lock()
	t.elapsed = fn
	t.mu.Unlock()
}

// IsElapsed reports whether the timer has started and its duration has
// passed. A timer that was never stepped reports false.
func (t *Timer) IsElapsed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.start.IsZero() && t.clock.Now().Sub(t.start) >= t.duration
}

// Step latches the start instant on first call, then checks the deadline.
func (t *Timer) Step(ctx context.Context) error {
	if !t.runnable() {
		return nil
	}

	t.mu.Lock()
	if t.start.IsZero() {
		t.start = t.clock.Now()
	}
	due := t.clock.Now().Sub(t.start) >= t.duration
	fn := t.elapsed
	t.mu.Unlock()

	if !due {
		return nil
	}
	if fn != nil {
		fn()
	}
	t.fired("elapsed")
	t.Complete()
	return nil
}

// PeriodicTimer fires its callback on every interval boundary observed
// during polling. The next due time is measured from the actual fire
// instant, not a fixed schedule, so the rate degrades under polling
// backpressure rather than bunching up.
//
// A periodic timer has no built-in terminal condition: it keeps firing
// until its callback returns false, or Complete is called, or its holder
// deactivates it.
type PeriodicTimer struct {
	Base
	interval time.Duration
	clock    Clock

	mu       sync.Mutex
	lastFire time.Time
	elapsed  func() bool
}

// NewPeriodicTimer returns a PeriodicTimer with the given interval. An
// unset last-fire instant means "due immediately": the first eligible Step
// fires.
func NewPeriodicTimer(interval time.Duration, opts ...Option) *PeriodicTimer {
	o := buildOptions(opts)
	return &PeriodicTimer{
		Base:     newBase("periodic_timer", o),
		interval: interval,
		clock:    o.clockOrReal(),
	}
}

// SetElapsedFunc installs the callback invoked on every fire. Returning
// false stops further firing and completes the timer; returning true keeps
// it going. A nil callback never self-terminates.
func (t *PeriodicTimer) SetElapsedFunc(fn func() bool) {
	t.mu.Lock()
	t.elapsed = fn
	t.mu.Unlock()
}

// Step fires the callback if the interval has passed since the last fire.
func (t *PeriodicTimer) Step(ctx context.Context) error {
	if !t.runnable() {
		return nil
	}

	t.mu.Lock()
	now := t.clock.Now()
	due := t.lastFire.IsZero() || now.Sub(t.lastFire) >= t.interval
	if due {
		t.lastFire = now
	}
	fn := t.elapsed
	t.mu.Unlock()

	if !due {
		return nil
	}
	keep := true
	if fn != nil {
		keep = fn()
	}
	t.fired("interval")
	if !keep {
		t.Complete()
	}
	return nil
}
