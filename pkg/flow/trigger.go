package flow

import (
	"context"
	"sync"
)

// Trigger is a predicate-gated one-shot generator. Each Step evaluates the
// predicate once; the first time it is observed true, the triggered
// callback (if set) runs exactly once and the trigger completes.
//
// A permanently-false predicate leaves the trigger pending indefinitely.
// Bounding must be composed explicitly, typically by racing against a
// Timer whose callback flips a shared flag the predicate also checks.
type Trigger struct {
	Base
	predicate func() bool

	mu        sync.Mutex
	triggered bool
	callback  func()
}

// NewTrigger returns a Trigger gated on the given predicate. The predicate
// is expected to be side-effect-free; it is evaluated once per Step.
func NewTrigger(predicate func() bool, opts ...Option) *Trigger {
	if predicate == nil {
		panic("flow: trigger predicate must not be nil")
	}
	return &Trigger{
		Base:      newBase("trigger", buildOptions(opts)),
		predicate: predicate,
	}
}

// SetTriggeredFunc installs the callback invoked once, the first time the
// predicate is observed true.
func (t *Trigger) SetTriggeredFunc(fn func()) {
	t.mu.Lock()
	t.callback = fn
	t.mu.Unlock()
}

// IsTriggered reports whether the predicate has been observed true.
func (t *Trigger) IsTriggered() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.triggered
}

// Step evaluates the predicate and completes on first observed truth.
func (t *Trigger) Step(ctx context.Context) error {
	if !t.runnable() {
		return nil
	}
	if !t.predicate() {
		return nil
	}

	t.mu.Lock()
	first := !t.triggered
	t.triggered = true
	fn := t.callback
	t.mu.Unlock()

	if first {
		if fn != nil {
			fn()
		}
		t.fired("triggered")
	}
	t.Complete()
	return nil
}
