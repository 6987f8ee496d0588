package flow

import (
	"context"
	"errors"
	"testing"
)

func TestBarrierEmptyCompletesImmediately(t *testing.T) {
	t.Parallel()

	b := NewBarrier()
	_ = b.Step(context.Background())
	if !b.IsCompleted() {
		t.Fatal("empty barrier must complete on its first step")
	}
}

func TestBarrierCompletesOnlyWhenAllChildrenComplete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBarrier(WithName("join"))
	children := []*countingChild{
		newCountingChild("a"),
		newCountingChild("b"),
		newCountingChild("c"),
	}
	for _, c := range children {
		b.Add(c)
	}

	// Children finish one per step; the barrier must hold until the last.
	for i, c := range children {
		if b.IsCompleted() {
			t.Fatalf("barrier completed with child %d still pending", i)
		}
		_ = b.Step(ctx)
		c.Complete()
	}
	_ = b.Step(ctx)
	if !b.IsCompleted() {
		t.Fatal("barrier must complete once every child has")
	}
}

func TestBarrierFansOutEveryStep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBarrier()
	a := newCountingChild("a")
	c := newCountingChild("c")
	b.Add(a)
	b.Add(c)

	a.Complete()
	_ = b.Step(ctx)
	_ = b.Step(ctx)

	if a.steps != 0 {
		t.Fatalf("completed child was stepped %d times", a.steps)
	}
	if c.steps != 2 {
		t.Fatalf("pending child stepped %d times, want 2", c.steps)
	}
}

func TestBarrierChildErrorIsContained(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var reported error
	obs := &countingObserver{onStepError: func(_ Info, err error) { reported = err }}

	b := NewBarrier(WithObserver(obs))
	bad := newCountingChild("bad")
	bad.err = errors.New("boom")
	good := newCountingChild("good")
	b.Add(bad)
	b.Add(good)

	if err := b.Step(ctx); err != nil {
		t.Fatalf("child errors must not escalate: %v", err)
	}
	if reported == nil || reported.Error() != "boom" {
		t.Fatalf("expected child error reported to observer, got %v", reported)
	}
	if good.steps != 1 {
		t.Fatal("sibling must still be stepped after a child error")
	}
}

func TestBarrierDrainedByPruningCompletes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := NewBarrier()
	a := newCountingChild("a")
	b.Add(a)

	a.Complete()
	b.ClearCompleted()
	if b.Len() != 0 {
		t.Fatalf("expected pruned barrier to be empty, len=%d", b.Len())
	}
	_ = b.Step(ctx)
	if !b.IsCompleted() {
		t.Fatal("barrier drained by pruning must complete on its next step")
	}
}
