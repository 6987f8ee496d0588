package flow

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Generator is the common contract implemented by every schedulable unit:
// leaves (Timer, PeriodicTimer, Trigger, Future, Coroutine, SyncCoroutine)
// and composites (Node, Sequence, Barrier).
//
// A generator carries three independent lifecycle flags:
//
//   - active: an advisory gate; a deactivated generator is skipped by Step.
//   - running: cleared permanently once the generator completes.
//   - completed: monotonic; once true it never becomes false, and it
//     implies not-running.
//
// Step advances the generator's local progress by one non-blocking unit of
// work. It is a no-op unless the generator is active, running, and not yet
// completed.
type Generator interface {
	// ID returns the unique identity assigned at construction.
	ID() uuid.UUID

	// Kind returns a short label for the concrete node kind, such as
	// "timer" or "sequence". Used for logging and journaling.
	Kind() string

	// Name returns the optional diagnostic name, or "" if unset.
	Name() string

	// SetName assigns a diagnostic name.
	SetName(name string)

	IsActive() bool
	IsRunning() bool
	IsCompleted() bool

	// Activate and Deactivate toggle the active flag only. They do not
	// force completion and do not stop in-flight background work.
	Activate()
	Deactivate()

	// Complete marks the generator completed and not-running. It is
	// idempotent: repeated calls have no further observable effect.
	Complete()

	// Step performs one non-blocking advance. Implementations must not
	// block; long-running work belongs in a Coroutine.
	Step(ctx context.Context) error

	// Log returns the structured logger attached to this generator.
	Log() *slog.Logger
}

// Base holds the lifecycle state shared by every generator kind. Concrete
// node types embed it and implement only Step on top.
//
// The three flags are independently atomic so unrelated generators never
// serialize on each other; callbacks may flip flags concurrently with the
// poll path.
type Base struct {
	id   uuid.UUID
	kind string

	mu   sync.Mutex // guards name
	name string

	active    atomic.Bool
	running   atomic.Bool
	completed atomic.Bool

	log *slog.Logger
	obs Observer
}

func newBase(kind string, o options) Base {
	b := Base{
		id:   uuid.New(),
		kind: kind,
		name: o.name,
		log:  o.log,
		obs:  o.obs,
	}
	if b.log == nil {
		b.log = slog.Default()
	}
	if b.obs == nil {
		b.obs = NoopObserver{}
	}
	b.active.Store(true)
	b.running.Store(true)
	return b
}

// ID returns the unique identity assigned at construction.
func (b *Base) ID() uuid.UUID { return b.id }

// Kind returns the concrete node kind label.
func (b *Base) Kind() string { return b.kind }

// Name returns the diagnostic name, or "" if none was set.
func (b *Base) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.name
}

// SetName assigns a diagnostic name.
func (b *Base) SetName(name string) {
	b.mu.Lock()
	b.name = name
	b.mu.Unlock()
}

func (b *Base) IsActive() bool    { return b.active.Load() }
func (b *Base) IsRunning() bool   { return b.running.Load() }
func (b *Base) IsCompleted() bool { return b.completed.Load() }

// Activate sets the active flag.
func (b *Base) Activate() { b.active.Store(true) }

// Deactivate clears the active flag. The generator keeps its running and
// completed state; it simply stops advancing until reactivated.
func (b *Base) Deactivate() { b.active.Store(false) }

// Complete marks the generator completed and not-running. The completed
// flag is monotonic; only the first call notifies the observer.
func (b *Base) Complete() {
	first := b.completed.CompareAndSwap(false, true)
	b.running.Store(false)
	if first {
		b.obs.OnComplete(b.info())
	}
}

// Log returns the structured logger attached to this generator.
func (b *Base) Log() *slog.Logger { return b.log }

// runnable reports whether Step should do any work.
func (b *Base) runnable() bool {
	return b.active.Load() && b.running.Load() && !b.completed.Load()
}

func (b *Base) info() Info {
	return Info{ID: b.id, Name: b.Name(), Kind: b.kind}
}

// fired notifies the observer that this generator's callback path ran.
func (b *Base) fired(detail string) {
	b.obs.OnFired(b.info(), detail)
}

// stepError logs and reports a child step failure. The error never
// escalates past the structural parent.
func (b *Base) stepError(child Generator, err error) {
	b.log.Error("child step failed",
		slog.String("parent", b.kind),
		slog.String("parent_name", b.Name()),
		slog.String("child", child.Kind()),
		slog.String("child_name", child.Name()),
		slog.Any("error", err),
	)
	b.obs.OnStepError(Info{ID: child.ID(), Name: child.Name(), Kind: child.Kind()}, err)
}

// options collects the ambient collaborators shared by all constructors.
type options struct {
	name  string
	log   *slog.Logger
	obs   Observer
	clock Clock
	poll  time.Duration
}

func (o options) clockOrReal() Clock {
	if o.clock == nil {
		return RealClock()
	}
	return o.clock
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a generator at construction time.
type Option func(*options)

// WithName assigns a diagnostic name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger attaches a structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithObserver attaches an Observer notified of lifecycle events.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.obs = obs }
}

// WithClock injects the clock used by timers and the kernel. Defaults to
// the wall clock; tests inject a ManualClock for deterministic runs.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithPollInterval sets the kernel's poll quantum. Ignored by leaf
// constructors. Defaults to 1ms.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.poll = d }
}
