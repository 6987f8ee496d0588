// Package flowkit provides a cooperative task-composition engine for Go.
//
// Flowkit lets a caller express control-flow patterns such as timeout
// races, heartbeats, staged pipelines, and producer/consumer handoff
// declaratively,
// as a tree of schedulable work units, instead of hand-coding state
// machines. It runs fully in-process with no external infrastructure.
//
// # Core Concepts
//
// The flowkit programming model is intentionally small:
//
//  1. Generator
//  2. Leaves: Timer, PeriodicTimer, Trigger, Future, Coroutine, SyncCoroutine
//  3. Composites: Node, Sequence, Barrier
//  4. Kernel
//  5. Factory
//
// # Generator
//
// Everything schedulable implements Generator: a unique identity, an
// optional name, three lifecycle flags (active, running, completed), and a
// non-blocking Step. Completion is monotonic and idempotent. Handles are
// shared: a caller may keep its own reference to a child after inserting
// it into a composite, to set callbacks or inspect state later.
//
// # Leaves
//
// Timer completes once a fixed duration has passed, measured from its
// first step. PeriodicTimer fires a callback on every observed interval
// boundary and keeps going until the callback says stop. Trigger waits for
// a predicate to come true. Future is a single-assignment broadcast cell:
// one producer calls SetValue, any number of consumers block in Wait and
// all observe the same value. Coroutine wraps work running on its own
// goroutine, the only genuinely concurrent leaf. SyncCoroutine wraps a
// plain step function driven purely by polling.
//
// # Composites
//
// Node fans out steps to an unordered group and never completes on its
// own. Sequence drives exactly one child at a time, strictly in order.
// Barrier fans out like Node and completes once every child has.
//
// # Kernel
//
// The Kernel owns the root Node and the poll loop. RunUntilComplete drives
// real-time cycles until the tree drains or BreakFlow is called; Update
// injects explicit time deltas for deterministic runs. Completed children
// are pruned from the tree between cycles.
//
// # Observability
//
// Generators accept an Observer (see WithObserver): LoggingObserver writes
// structured slog entries, BasicMetrics counts events, and the journal
// package records them durably in SQLite. Declarative trees can be loaded
// from YAML plans (see Plan).
//
// A minimal timeout race:
//
//	var timedOut atomic.Bool
//	k := flowkit.NewKernel()
//	t := flowkit.NewTimer(100*time.Millisecond, flowkit.WithName("deadline"))
//	t.SetElapsedFunc(func() { timedOut.Store(true) })
//	k.Root().Add(t)
//	k.Root().Add(flowkit.NewTrigger(timedOut.Load, flowkit.WithName("gate")))
//	_ = k.RunUntilComplete(ctx)
package flowkit
