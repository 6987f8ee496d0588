package flow

import (
	"context"
	"sync"
)

// Future is a single-assignment broadcast cell bridging tree branches: one
// branch produces a value with SetValue, any number of concurrent consumers
// receive the same value from Wait.
//
// SetValue is last-write-wins: a second call silently overwrites the stored
// value. Consumers that have already returned from Wait keep the copy they
// observed.
//
// As a generator, Step independently observes value-presence and completes;
// this is redundant with SetValue's own completion but keeps a future
// well-behaved when polled inside a composite.
type Future[T any] struct {
	Base

	mu    sync.Mutex
	value T
	has   bool
	ready chan struct{} // closed while a value is present
}

// NewFuture returns an empty Future.
func NewFuture[T any](opts ...Option) *Future[T] {
	return &Future[T]{
		Base:  newBase("future", buildOptions(opts)),
		ready: make(chan struct{}),
	}
}

// SetValue stores v, wakes every suspended waiter, and completes the
// future. Calling it again overwrites the stored value.
func (f *Future[T]) SetValue(v T) {
	f.mu.Lock()
	first := !f.has
	f.value = v
	f.has = true
	if first {
		close(f.ready)
	}
	f.mu.Unlock()

	f.fired("value_set")
	f.Complete()
}

// Value returns a copy of the stored value without removing it.
func (f *Future[T]) Value() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.has
}

// Take removes and returns the stored value. After Take, waiters suspend
// again until the next SetValue.
func (f *Future[T]) Take() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.has {
		var zero T
		return zero, false
	}
	v := f.value
	var zero T
	f.value = zero
	f.has = false
	f.ready = make(chan struct{})
	return v, true
}

// Wait blocks the calling goroutine until a value is present, then returns
// a copy. It is a broadcast: every concurrent waiter observes the same
// value after one SetValue. Wait returns early with ctx.Err() if the
// context is cancelled first.
//
// Wait suspends only the caller, never the poll loop; it must not be
// called from a Step path.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	for {
		f.mu.Lock()
		if f.has {
			v := f.value
			f.mu.Unlock()
			return v, nil
		}
		ready := f.ready
		f.mu.Unlock()

		select {
		case <-ready:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Step completes the future once a value is present.
func (f *Future[T]) Step(ctx context.Context) error {
	if !f.runnable() {
		return nil
	}
	f.mu.Lock()
	has := f.has
	f.mu.Unlock()
	if has {
		f.Complete()
	}
	return nil
}
