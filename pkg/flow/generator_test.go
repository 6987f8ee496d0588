package flow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBaseDefaults(t *testing.T) {
	t.Parallel()

	tm := NewTimer(time.Second, WithName("fresh"))

	if !tm.IsActive() || !tm.IsRunning() || tm.IsCompleted() {
		t.Fatalf("unexpected initial flags: active=%v running=%v completed=%v",
			tm.IsActive(), tm.IsRunning(), tm.IsCompleted())
	}
	if tm.Name() != "fresh" {
		t.Fatalf("unexpected name: %q", tm.Name())
	}
	if tm.ID() == uuid.Nil {
		t.Fatal("expected a non-zero id")
	}
	if tm.Kind() != "timer" {
		t.Fatalf("unexpected kind: %q", tm.Kind())
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	t.Parallel()

	var completions int
	obs := &countingObserver{onComplete: func(Info) { completions++ }}
	tm := NewTimer(time.Second, WithObserver(obs))

	tm.Complete()
	tm.Complete()
	tm.Complete()

	if !tm.IsCompleted() {
		t.Fatal("expected completed")
	}
	if tm.IsRunning() {
		t.Fatal("completed implies not-running")
	}
	if completions != 1 {
		t.Fatalf("expected exactly one completion notification, got %d", completions)
	}
}

func TestStepGates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var calls int
	sc := NewSyncCoroutine(func() (int, bool) {
		calls++
		return calls, true
	})

	sc.Deactivate()
	if err := sc.Step(ctx); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if calls != 0 {
		t.Fatal("inactive generator must not advance")
	}

	sc.Activate()
	if err := sc.Step(ctx); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one advance, got %d", calls)
	}

	sc.Complete()
	if err := sc.Step(ctx); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if calls != 1 {
		t.Fatal("completed generator must not advance")
	}
}

func TestSetName(t *testing.T) {
	t.Parallel()

	n := NewNode()
	if n.Name() != "" {
		t.Fatalf("expected empty name, got %q", n.Name())
	}
	n.SetName("renamed")
	if n.Name() != "renamed" {
		t.Fatalf("unexpected name: %q", n.Name())
	}
}

// countingObserver is a test Observer built from closures.
type countingObserver struct {
	onComplete  func(Info)
	onFired     func(Info, string)
	onStepError func(Info, error)
}

func (o *countingObserver) OnComplete(g Info) {
	if o.onComplete != nil {
		o.onComplete(g)
	}
}

func (o *countingObserver) OnFired(g Info, detail string) {
	if o.onFired != nil {
		o.onFired(g, detail)
	}
}

func (o *countingObserver) OnStepError(g Info, err error) {
	if o.onStepError != nil {
		o.onStepError(g, err)
	}
}
