package flow

import (
	"context"
	"sync"
)

// Sequence walks its children strictly in insertion order, one at a time:
// child i+1 is never stepped before child i reports completed. Each
// Sequence Step advances at most one child step; there is no catch-up
// across multiple children in a single call.
//
// A sequence with no children completes on its first Step; otherwise it
// completes exactly once, immediately after observing its last child
// completed.
type Sequence struct {
	Base
	mu       sync.Mutex // guards children and cursor together
	children []Generator
	cursor   int
}

// NewSequence returns an empty Sequence.
func NewSequence(opts ...Option) *Sequence {
	return &Sequence{Base: newBase("sequence", buildOptions(opts))}
}

// Add appends a child to the end of the walk order.
func (s *Sequence) Add(child Generator) {
	s.mu.Lock()
	s.children = append(s.children, child)
	s.mu.Unlock()
}

// Len returns the current child count.
func (s *Sequence) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.children)
}

// CurrentIndex returns the cursor: the index of the child currently being
// driven. It is monotonically non-decreasing.
func (s *Sequence) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// ClearCompleted drops completed children behind the cursor, shifting the
// cursor accordingly, then recurses into remaining composite children.
// Walk order and the current child are unaffected.
func (s *Sequence) ClearCompleted() {
	s.mu.Lock()
	kept := s.children[:0]
	cursor := s.cursor
	for i, c := range s.children {
		if i < s.cursor && c.IsCompleted() {
			cursor--
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(s.children); i++ {
		s.children[i] = nil
	}
	s.children = kept
	s.cursor = cursor
	remaining := make([]Generator, len(kept))
	copy(remaining, kept)
	s.mu.Unlock()

	for _, c := range remaining {
		if p, ok := c.(Pruner); ok {
			p.ClearCompleted()
		}
	}
}

// Step drives the child at the cursor. A completed current child advances
// the cursor; running off the end completes the sequence.
func (s *Sequence) Step(ctx context.Context) error {
	if !s.runnable() {
		return nil
	}

	s.mu.Lock()
	if len(s.children) == 0 || s.cursor >= len(s.children) {
		s.mu.Unlock()
		s.Complete()
		return nil
	}

	child := s.children[s.cursor]
	if child.IsCompleted() {
		s.cursor++
		exhausted := s.cursor >= len(s.children)
		s.mu.Unlock()
		if exhausted {
			s.Complete()
		}
		return nil
	}
	s.mu.Unlock()

	if child.IsActive() && child.IsRunning() {
		if err := child.Step(ctx); err != nil {
			s.stepError(child, err)
		}
	}
	return nil
}
