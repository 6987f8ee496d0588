package flow

import (
	"context"
	"sync"
)

// Barrier is the parallel join primitive: it fans out steps to all its
// children exactly as a Node does, and completes itself once every child
// reports completed. A barrier with no children completes on its first
// Step.
type Barrier struct {
	Base
	mu       sync.RWMutex
	children []Generator
}

// NewBarrier returns an empty Barrier.
func NewBarrier(opts ...Option) *Barrier {
	return &Barrier{Base: newBase("barrier", buildOptions(opts))}
}

// Add appends a child branch to wait on.
func (b *Barrier) Add(child Generator) {
	b.mu.Lock()
	b.children = append(b.children, child)
	b.mu.Unlock()
}

// Len returns the current child count.
func (b *Barrier) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.children)
}

// ClearCompleted drops completed children, then recurses into remaining
// composite children. Dropped children have already counted toward the
// join: a barrier drained to empty completes on its next Step.
func (b *Barrier) ClearCompleted() {
	b.mu.Lock()
	kept := b.children[:0]
	for _, c := range b.children {
		if !c.IsCompleted() {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(b.children); i++ {
		b.children[i] = nil
	}
	b.children = kept
	remaining := make([]Generator, len(kept))
	copy(remaining, kept)
	b.mu.Unlock()

	for _, c := range remaining {
		if p, ok := c.(Pruner); ok {
			p.ClearCompleted()
		}
	}
}

// Step fans out to every eligible child, then completes if all children
// report completed. Child errors are logged and never escalate.
func (b *Barrier) Step(ctx context.Context) error {
	if !b.runnable() {
		return nil
	}

	b.mu.RLock()
	children := make([]Generator, len(b.children))
	copy(children, b.children)
	b.mu.RUnlock()

	if len(children) == 0 {
		b.Complete()
		return nil
	}

	for _, child := range children {
		if child.IsActive() && child.IsRunning() && !child.IsCompleted() {
			if err := child.Step(ctx); err != nil {
				b.stepError(child, err)
			}
		}
	}

	all := true
	for _, child := range children {
		if !child.IsCompleted() {
			all = false
			break
		}
	}
	if all {
		b.Complete()
	}
	return nil
}
