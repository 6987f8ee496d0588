// Package flow implements the generator core: the lifecycle contract,
// the leaf node kinds (Timer, PeriodicTimer, Trigger, Future, Coroutine,
// SyncCoroutine), the composites (Node, Sequence, Barrier), and the Kernel
// that drives them through a cooperative poll loop.
//
// Most callers should use the flowkit root package, which re-exports these
// types alongside construction sugar. This package holds the semantics.
//
// # Scheduling model
//
// Everything is driven by polling: the kernel repeatedly invokes Step on
// its root Node, composites recursively invoke Step on their children, and
// leaves advance local progress and fire callbacks. No Step may block;
// blocking or long-running work must be delegated to a Coroutine, which
// runs on its own goroutine decoupled from poll cadence.
//
// Data moves sideways between tree branches only through Futures and
// through externally shared state captured by callbacks; the tree itself
// carries no payload.
//
// # Errors
//
// An error surfaced from a child's Step is caught and logged by its
// immediate structural parent and never aborts sibling stepping or the
// parent's own step. A generator that never completes silently stalls any
// Sequence or Barrier waiting on it; there is no built-in timeout.
// Bounding is composed explicitly, typically a Timer whose callback flips
// a shared flag checked by a completion Trigger.
package flow
