package flowkit

import (
	"context"
	"time"

	"github.com/petrijr/flowkit/pkg/flow"
)

// Factory stamps a shared set of ambient collaborators (logger, observer,
// clock) onto every generator it builds, so a whole tree is wired
// consistently without repeating options at each call site:
//
//	f := flowkit.NewFactory(
//	    flowkit.WithLogger(log),
//	    flowkit.WithObserver(obs),
//	)
//	seq := f.Sequence("boot")
//	seq.Add(f.Timer("warmup", 50*time.Millisecond))
//	seq.Add(f.Trigger("ready", isReady))
type Factory struct {
	opts []Option
}

// NewFactory returns a Factory applying the given options to everything it
// constructs. Per-call names are added on top.
func NewFactory(opts ...Option) *Factory {
	return &Factory{opts: opts}
}

func (f *Factory) with(name string) []Option {
	out := make([]Option, 0, len(f.opts)+1)
	out = append(out, f.opts...)
	if name != "" {
		out = append(out, WithName(name))
	}
	return out
}

// Kernel builds a Kernel sharing the factory's collaborators.
func (f *Factory) Kernel() *Kernel {
	return flow.NewKernel(f.opts...)
}

// Node builds a named unordered group.
func (f *Factory) Node(name string) *Node {
	return flow.NewNode(f.with(name)...)
}

// Sequence builds a named ordered composite.
func (f *Factory) Sequence(name string) *Sequence {
	return flow.NewSequence(f.with(name)...)
}

// Barrier builds a named parallel join.
func (f *Factory) Barrier(name string) *Barrier {
	return flow.NewBarrier(f.with(name)...)
}

// Timer builds a named one-shot timer.
func (f *Factory) Timer(name string, d time.Duration) *Timer {
	return flow.NewTimer(d, f.with(name)...)
}

// PeriodicTimer builds a named repeating timer.
func (f *Factory) PeriodicTimer(name string, interval time.Duration) *PeriodicTimer {
	return flow.NewPeriodicTimer(interval, f.with(name)...)
}

// Trigger builds a named predicate gate.
func (f *Factory) Trigger(name string, predicate func() bool) *Trigger {
	return flow.NewTrigger(predicate, f.with(name)...)
}

// Go builds a named coroutine, launching fn immediately.
func (f *Factory) Go(ctx context.Context, name string, fn func(context.Context) error) *Coroutine {
	return flow.NewCoroutine(ctx, fn, f.with(name)...)
}

// GoDeferred builds a named coroutine that launches fn on its first step.
func (f *Factory) GoDeferred(ctx context.Context, name string, fn func(context.Context) error) *Coroutine {
	return flow.NewDeferredCoroutine(ctx, fn, f.with(name)...)
}

// FutureIn builds a named Future wired to the factory's collaborators.
// It is a package function because Go methods cannot be generic.
func FutureIn[T any](f *Factory, name string) *Future[T] {
	return flow.NewFuture[T](f.with(name)...)
}

// SyncCoroutineIn builds a named SyncCoroutine wired to the factory's
// collaborators.
func SyncCoroutineIn[T any](f *Factory, name string, stepFn func() (T, bool)) *SyncCoroutine[T] {
	return flow.NewSyncCoroutine(stepFn, f.with(name)...)
}
