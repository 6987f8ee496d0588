package flow

import (
	"context"
	"fmt"
	"sync"
)

// Coroutine wraps one unit of background work running on its own
// goroutine. It is the only bridge to genuinely concurrent execution;
// every other leaf is purely a function of polling.
//
// By default the goroutine is launched at construction, decoupled from
// polling cadence, so it can finish before the wrapper is ever stepped.
// Step only polls for the goroutine having finished; when it has, the
// outcome is collected (errors and panics are logged, never propagated)
// and the wrapper completes.
//
// Cancellation is cooperative: completing or deactivating the wrapper does
// not preempt the goroutine. The work function should honor its context.
type Coroutine struct {
	Base
	fn   func(context.Context) error
	ctx  context.Context
	done chan struct{}

	mu      sync.Mutex
	started bool
	err     error
}

// NewCoroutine launches fn on a new goroutine immediately and returns its
// wrapper. The context is passed through to fn; cancelling it is the only
// way to interrupt the work early.
func NewCoroutine(ctx context.Context, fn func(context.Context) error, opts ...Option) *Coroutine {
	c := newDetached(ctx, fn, opts)
	c.start()
	return c
}

// NewDeferredCoroutine is like NewCoroutine but delays launching the
// goroutine until the wrapper's first Step. Deferred coroutines make
// staged pipelines orderable: inside a Sequence, stage i+1 does not begin
// working until stage i has completed.
func NewDeferredCoroutine(ctx context.Context, fn func(context.Context) error, opts ...Option) *Coroutine {
	return newDetached(ctx, fn, opts)
}

func newDetached(ctx context.Context, fn func(context.Context) error, opts []Option) *Coroutine {
	if fn == nil {
		panic("flow: coroutine func must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Coroutine{
		Base: newBase("coroutine", buildOptions(opts)),
		fn:   fn,
		ctx:  ctx,
		done: make(chan struct{}),
	}
}

// start launches the goroutine once.
func (c *Coroutine) start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go func() {
		defer close(c.done)
		defer func() {
			if r := recover(); r != nil {
				c.setErr(fmt.Errorf("coroutine panicked: %v", r))
			}
		}()
		if err := c.fn(c.ctx); err != nil {
			c.setErr(err)
		}
	}()
}

func (c *Coroutine) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Err returns the error collected from the work, if any. It is only
// meaningful once the coroutine reports completed.
func (c *Coroutine) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Step polls whether the goroutine has finished; if so it collects the
// outcome and completes. A failed or cancelled work function is logged and
// the wrapper still completes.
func (c *Coroutine) Step(ctx context.Context) error {
	if !c.runnable() {
		return nil
	}
	c.start()

	select {
	case <-c.done:
	default:
		return nil
	}

	if err := c.Err(); err != nil {
		c.Log().Error("coroutine failed",
			"name", c.Name(),
			"error", err,
		)
		c.stepError(c, err)
	}
	c.Complete()
	return nil
}

// SyncCoroutine is a poll-driven generator built from a plain step
// function. Each Step calls the function once: a returned value is stored
// as the current value and stepping continues; ok=false means the function
// has nothing left to produce and the wrapper completes.
//
// There is no concurrency here: progress is entirely a function of how
// often Step is invoked.
type SyncCoroutine[T any] struct {
	Base
	stepFn func() (T, bool)

	mu    sync.Mutex
	value T
	has   bool
}

// NewSyncCoroutine returns a SyncCoroutine around the given step function.
func NewSyncCoroutine[T any](stepFn func() (T, bool), opts ...Option) *SyncCoroutine[T] {
	if stepFn == nil {
		panic("flow: sync coroutine step func must not be nil")
	}
	return &SyncCoroutine[T]{
		Base:   newBase("sync_coroutine", buildOptions(opts)),
		stepFn: stepFn,
	}
}

// Value returns the most recently produced value.
func (s *SyncCoroutine[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.has
}

// Step calls the step function once.
func (s *SyncCoroutine[T]) Step(ctx context.Context) error {
	if !s.runnable() {
		return nil
	}
	v, ok := s.stepFn()
	if !ok {
		s.Complete()
		return nil
	}
	s.mu.Lock()
	s.value = v
	s.has = true
	s.mu.Unlock()
	return nil
}
