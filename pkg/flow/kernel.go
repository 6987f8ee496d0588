package flow

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is the kernel's poll quantum when none is configured.
const DefaultPollInterval = time.Millisecond

// Kernel owns the root Node and drives the poll loop. All scheduled work
// hangs off Root(); the kernel repeatedly steps the root and prunes
// completed children between cycles.
//
// The kernel is itself a generator: BreakFlow, Complete, or Deactivate all
// stop it cooperatively. A step already in progress always runs to
// completion; nothing is preempted.
type Kernel struct {
	Base
	root  *Node
	clock Clock
	poll  time.Duration

	frameMu sync.RWMutex
	frame   TimeFrame

	breakMu  sync.Mutex
	breaking bool

	waitMu    sync.Mutex
	waitUntil time.Time
}

// NewKernel returns a Kernel with an empty root Node. The root inherits
// the kernel's logger, observer, and clock.
func NewKernel(opts ...Option) *Kernel {
	o := buildOptions(opts)
	if o.name == "" {
		o.name = "kernel"
	}
	clock := o.clockOrReal()
	poll := o.poll
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	rootOpts := o
	rootOpts.name = "root"
	k := &Kernel{
		Base:  newBase("kernel", o),
		root:  &Node{Base: newBase("node", rootOpts)},
		clock: clock,
		poll:  poll,
		frame: NewTimeFrame(clock.Now()),
	}
	return k
}

// Root returns the attachment point for all scheduled work.
func (k *Kernel) Root() *Node { return k.root }

// TimeFrame returns a snapshot of the kernel's current time frame.
func (k *Kernel) TimeFrame() TimeFrame {
	k.frameMu.RLock()
	defer k.frameMu.RUnlock()
	return k.frame
}

// BreakFlow sets the cooperative stop flag. It is checked once per loop
// iteration and at the top of every scheduling cycle; it does not preempt
// a step in progress.
func (k *Kernel) BreakFlow() {
	k.breakMu.Lock()
	k.breaking = true
	k.breakMu.Unlock()
}

// IsBreaking reports whether BreakFlow has been called.
func (k *Kernel) IsBreaking() bool {
	k.breakMu.Lock()
	defer k.breakMu.Unlock()
	return k.breaking
}

// Wait suspends the kernel's own stepping for the given duration. Detached
// background work (Coroutines) keeps running independently of the pause.
func (k *Kernel) Wait(d time.Duration) {
	k.waitMu.Lock()
	k.waitUntil = k.clock.Now().Add(d)
	k.waitMu.Unlock()
}

// IsWaiting reports whether a Wait deadline is still in the future.
func (k *Kernel) IsWaiting() bool {
	k.waitMu.Lock()
	defer k.waitMu.Unlock()
	return !k.waitUntil.IsZero() && k.clock.Now().Before(k.waitUntil)
}

// ClearWait cancels a pending Wait deadline.
func (k *Kernel) ClearWait() {
	k.waitMu.Lock()
	k.waitUntil = time.Time{}
	k.waitMu.Unlock()
}

// Update advances the time frame by an injected delta, then performs one
// scheduling cycle. Injected deltas make runs deterministic for testing.
func (k *Kernel) Update(ctx context.Context, delta time.Duration) error {
	k.frameMu.Lock()
	k.frame.UpdateWithDelta(delta)
	k.frameMu.Unlock()
	return k.Step(ctx)
}

// UpdateRealTime advances the time frame from the clock, then performs one
// scheduling cycle.
func (k *Kernel) UpdateRealTime(ctx context.Context) error {
	k.frameMu.Lock()
	k.frame.UpdateFrom(k.clock.Now())
	k.frameMu.Unlock()
	return k.Step(ctx)
}

// Step performs one scheduling cycle: a no-op while breaking or waiting,
// otherwise it steps the root and prunes completed children from the tree.
//
// Internal errors are caught and logged by the structural parents and never
// reach here; a returned error would mean a genuine kernel-level failure
// and aborts the current run loop.
func (k *Kernel) Step(ctx context.Context) error {
	if !k.runnable() {
		return nil
	}
	if k.IsBreaking() || k.IsWaiting() {
		return nil
	}

	if n := k.root.Len(); n > 0 {
		k.Log().Debug("stepping kernel", "root_children", n)
	}

	if err := k.root.Step(ctx); err != nil {
		return err
	}
	k.root.ClearCompleted()
	return nil
}

// RunUntilComplete loops real-time scheduling cycles at the poll quantum
// until BreakFlow is called, the kernel stops running, the root has no
// children left, or the context is cancelled.
func (k *Kernel) RunUntilComplete(ctx context.Context) error {
	for k.IsRunning() && !k.IsBreaking() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if k.IsWaiting() {
			if err := k.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		if err := k.UpdateRealTime(ctx); err != nil {
			return err
		}
		if k.root.Len() == 0 {
			break
		}
		if err := k.sleep(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RunFor is RunUntilComplete bounded by wall-clock elapsed time instead of
// root-draining.
func (k *Kernel) RunFor(ctx context.Context, d time.Duration) error {
	start := k.clock.Now()
	for k.IsRunning() && !k.IsBreaking() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if k.clock.Now().Sub(start) >= d {
			break
		}
		if k.IsWaiting() {
			if err := k.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		if err := k.UpdateRealTime(ctx); err != nil {
			return err
		}
		if err := k.sleep(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (k *Kernel) sleep(ctx context.Context) error {
	timer := time.NewTimer(k.poll)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
