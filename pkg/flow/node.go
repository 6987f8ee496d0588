package flow

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Pruner is implemented by composites that can drop completed children.
// Node.ClearCompleted recurses through children implementing it, so
// pruning at the kernel root drains completed generators from the whole
// tree.
type Pruner interface {
	ClearCompleted()
}

// Node is an unordered group of children stepped fan-out style. It never
// completes on its own, whatever its children do; it must be completed or
// deactivated externally. This makes it the natural attachment point for
// open-ended work such as heartbeats.
//
// Children are shared handles: a caller may keep its own reference after
// insertion to set callbacks, inspect state, or insert the same child
// elsewhere. The child list may be mutated concurrently with stepping; an
// in-flight Step is not guaranteed to observe a concurrently-inserted
// child.
type Node struct {
	Base
	mu       sync.RWMutex
	children []Generator
}

// NewNode returns an empty Node.
func NewNode(opts ...Option) *Node {
	return &Node{Base: newBase("node", buildOptions(opts))}
}

// Add appends a child. The same generator may be attached to more than one
// parent; it is the caller's concern whether double-stepping makes sense.
func (n *Node) Add(child Generator) {
	n.mu.Lock()
	n.children = append(n.children, child)
	n.mu.Unlock()
}

// Remove detaches the first child with the given id. It reports whether a
// child was removed.
func (n *Node) Remove(id uuid.UUID) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, c := range n.children {
		if c.ID() == id {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the current child count.
func (n *Node) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.children)
}

// Children returns a snapshot copy of the child list.
func (n *Node) Children() []Generator {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Generator, len(n.children))
	copy(out, n.children)
	return out
}

// ClearCompleted drops children that report completed, then recurses into
// the remaining children that implement Pruner.
func (n *Node) ClearCompleted() {
	n.mu.Lock()
	kept := n.children[:0]
	for _, c := range n.children {
		if !c.IsCompleted() {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(n.children); i++ {
		n.children[i] = nil
	}
	n.children = kept
	remaining := make([]Generator, len(kept))
	copy(remaining, kept)
	n.mu.Unlock()

	for _, c := range remaining {
		if p, ok := c.(Pruner); ok {
			p.ClearCompleted()
		}
	}
}

// Step fans out one Step call to every child that is active, running, and
// not completed. A failing child step is logged here and never escalates;
// the child stays eligible to complete on its own terms later.
func (n *Node) Step(ctx context.Context) error {
	if !n.runnable() {
		return nil
	}

	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	n.Log().Debug("stepping node", "name", n.Name(), "children", len(children))

	for _, child := range children {
		if child.IsActive() && child.IsRunning() && !child.IsCompleted() {
			if err := child.Step(ctx); err != nil {
				n.stepError(child, err)
			}
		}
	}
	return nil
}
