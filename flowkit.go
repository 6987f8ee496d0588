package flowkit

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/petrijr/flowkit/pkg/flow"
	"github.com/petrijr/flowkit/pkg/journal"
)

// Re-export key types so users don't need to dig into pkg/flow.

type (
	Generator     = flow.Generator
	Timer         = flow.Timer
	PeriodicTimer = flow.PeriodicTimer
	Trigger       = flow.Trigger
	Coroutine     = flow.Coroutine
	Node          = flow.Node
	Sequence      = flow.Sequence
	Barrier       = flow.Barrier
	Kernel        = flow.Kernel
	TimeFrame     = flow.TimeFrame
	Clock         = flow.Clock
	ManualClock   = flow.ManualClock
	Option        = flow.Option

	Observer             = flow.Observer
	Info                 = flow.Info
	NoopObserver         = flow.NoopObserver
	LoggingObserver      = flow.LoggingObserver
	BasicMetrics         = flow.BasicMetrics
	BasicMetricsSnapshot = flow.BasicMetricsSnapshot
)

// Generic node kinds.

type (
	Future[T any]        = flow.Future[T]
	SyncCoroutine[T any] = flow.SyncCoroutine[T]
)

// Re-export construction options.

var (
	NewManualClock   = flow.NewManualClock
	WithName         = flow.WithName
	WithLogger       = flow.WithLogger
	WithObserver     = flow.WithObserver
	WithClock        = flow.WithClock
	WithPollInterval = flow.WithPollInterval
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = flow.NewLoggingObserver
	NewCompositeObserver = flow.NewCompositeObserver
)

// Constructors
// These wrap pkg/flow so simple callers never import it directly.

// NewKernel returns a Kernel with an empty root Node.
func NewKernel(opts ...Option) *Kernel {
	return flow.NewKernel(opts...)
}

// NewNode returns an unordered group with no auto-completion.
func NewNode(opts ...Option) *Node {
	return flow.NewNode(opts...)
}

// NewSequence returns an ordered one-at-a-time composite.
func NewSequence(opts ...Option) *Sequence {
	return flow.NewSequence(opts...)
}

// NewBarrier returns a parallel-join composite.
func NewBarrier(opts ...Option) *Barrier {
	return flow.NewBarrier(opts...)
}

// NewTimer returns a one-shot deadline generator.
func NewTimer(d time.Duration, opts ...Option) *Timer {
	return flow.NewTimer(d, opts...)
}

// NewPeriodicTimer returns a repeating deadline generator.
func NewPeriodicTimer(interval time.Duration, opts ...Option) *PeriodicTimer {
	return flow.NewPeriodicTimer(interval, opts...)
}

// NewTrigger returns a predicate-gated one-shot generator.
func NewTrigger(predicate func() bool, opts ...Option) *Trigger {
	return flow.NewTrigger(predicate, opts...)
}

// Go launches fn on its own goroutine immediately and returns its wrapper.
func Go(ctx context.Context, fn func(context.Context) error, opts ...Option) *Coroutine {
	return flow.NewCoroutine(ctx, fn, opts...)
}

// GoDeferred is like Go but delays launching fn until the wrapper's first
// step, which makes coroutine stages inside a Sequence strictly ordered.
func GoDeferred(ctx context.Context, fn func(context.Context) error, opts ...Option) *Coroutine {
	return flow.NewDeferredCoroutine(ctx, fn, opts...)
}

// NewFuture returns an empty single-assignment broadcast cell.
func NewFuture[T any](opts ...Option) *Future[T] {
	return flow.NewFuture[T](opts...)
}

// NewSyncCoroutine returns a poll-driven generator around a step function.
func NewSyncCoroutine[T any](stepFn func() (T, bool), opts ...Option) *SyncCoroutine[T] {
	return flow.NewSyncCoroutine(stepFn, opts...)
}

// Journal wiring
// These wrap pkg/journal so external callers can record lifecycle events
// without importing it.

// NewMemoryJournal returns an in-memory event store and an Observer that
// records into it. Pass the observer to NewKernel or NewFactory via
// WithObserver.
func NewMemoryJournal(logger *slog.Logger) (*journal.MemoryStore, Observer) {
	store := journal.NewMemoryStore()
	return store, journal.NewRecorder(store, logger)
}

// NewSQLiteJournal returns a SQLite-backed event store and an Observer that
// records into it. The *sql.DB must use a SQLite driver, e.g.:
//
//	db, _ := sql.Open("sqlite", "file:flow.db?_journal=WAL")
//	store, obs, err := flowkit.NewSQLiteJournal(db, nil)
//	k := flowkit.NewKernel(flowkit.WithObserver(obs))
func NewSQLiteJournal(db *sql.DB, logger *slog.Logger) (*journal.SQLiteStore, Observer, error) {
	store, err := journal.NewSQLiteStore(db)
	if err != nil {
		return nil, nil, err
	}
	return store, journal.NewRecorder(store, logger), nil
}
