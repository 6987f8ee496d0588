// Package journal records generator lifecycle events to an append-only
// store. Hook a Recorder into a kernel (or any generator) via the observer
// option and every completion, fire, and step error lands in the store,
// in memory for tests and tooling or in SQLite for durable traces.
package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a recorded lifecycle event.
type EventType string

const (
	// EventCompleted is recorded when a generator first completes.
	EventCompleted EventType = "COMPLETED"

	// EventFired is recorded when a generator's callback path runs.
	EventFired EventType = "FIRED"

	// EventStepError is recorded when a child step fails. The error was
	// already handled (logged, never escalated) by its parent.
	EventStepError EventType = "STEP_ERROR"
)

// Event is one recorded lifecycle transition.
type Event struct {
	At          time.Time
	GeneratorID uuid.UUID
	Name        string
	Kind        string
	Type        EventType
	Detail      string
}

// Store is an append-only history store for generator lifecycle events.
type Store interface {
	Append(ctx context.Context, ev Event) error

	// Events returns the recorded events for one generator, oldest first.
	Events(ctx context.Context, generatorID uuid.UUID) ([]Event, error)
}

// MemoryStore keeps events in memory. Non-durable; best for tests.
type MemoryStore struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Events(ctx context.Context, generatorID uuid.UUID) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.GeneratorID == generatorID {
			out = append(out, ev)
		}
	}
	return out, nil
}

// All returns a snapshot of every recorded event, oldest first.
func (s *MemoryStore) All() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
