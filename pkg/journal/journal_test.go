package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/flowkit/pkg/flow"
)

func TestMemoryStoreFiltersByGenerator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	a := uuid.New()
	b := uuid.New()
	require.NoError(t, store.Append(ctx, Event{GeneratorID: a, Type: EventFired, Detail: "elapsed"}))
	require.NoError(t, store.Append(ctx, Event{GeneratorID: b, Type: EventCompleted}))
	require.NoError(t, store.Append(ctx, Event{GeneratorID: a, Type: EventCompleted}))

	got, err := store.Events(ctx, a)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, EventFired, got[0].Type)
	require.Equal(t, EventCompleted, got[1].Type)
	require.False(t, got[0].At.IsZero(), "Append must stamp missing timestamps")

	require.Len(t, store.All(), 3)
}

func TestRecorderCapturesLifecycle(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	rec := NewRecorder(store, nil)

	tr := flow.NewTrigger(func() bool { return true },
		flow.WithName("ready"),
		flow.WithObserver(rec),
	)
	require.NoError(t, tr.Step(context.Background()))

	events, err := store.Events(context.Background(), tr.ID())
	require.NoError(t, err)
	require.Len(t, events, 2)

	require.Equal(t, EventFired, events[0].Type)
	require.Equal(t, "triggered", events[0].Detail)
	require.Equal(t, EventCompleted, events[1].Type)
	for _, ev := range events {
		require.Equal(t, "ready", ev.Name)
		require.Equal(t, "trigger", ev.Kind)
	}
}

func TestRecorderCapturesStepErrors(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	rec := NewRecorder(store, nil)

	task := flow.NewCoroutine(context.Background(), func(ctx context.Context) error {
		return errors.New("exploded")
	}, flow.WithName("task"), flow.WithObserver(rec))

	deadline := time.Now().Add(2 * time.Second)
	for !task.IsCompleted() && time.Now().Before(deadline) {
		require.NoError(t, task.Step(context.Background()))
		time.Sleep(time.Millisecond)
	}
	require.True(t, task.IsCompleted())

	events, err := store.Events(context.Background(), task.ID())
	require.NoError(t, err)

	var sawError bool
	for _, ev := range events {
		if ev.Type == EventStepError {
			sawError = true
			require.Equal(t, "exploded", ev.Detail)
		}
	}
	require.True(t, sawError, "failed coroutine must leave a STEP_ERROR event")
}
