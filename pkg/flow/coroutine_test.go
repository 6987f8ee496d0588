package flow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stepUntilCompleted polls g.Step until it completes or the deadline passes.
func stepUntilCompleted(t *testing.T, g Generator) {
	t.Helper()
	ctx := context.Background()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, g.Step(ctx))
		if g.IsCompleted() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("%s %q never completed", g.Kind(), g.Name())
}

func TestCoroutineStartsAtConstruction(t *testing.T) {
	t.Parallel()

	var ran atomic.Bool
	c := NewCoroutine(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	// The work runs regardless of stepping.
	require.Eventually(t, ran.Load, time.Second, time.Millisecond)
	require.False(t, c.IsCompleted(), "the wrapper only completes via Step")

	stepUntilCompleted(t, c)
	require.NoError(t, c.Err())
}

func TestCoroutineFinishedBeforeFirstStep(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	c := NewCoroutine(context.Background(), func(ctx context.Context) error {
		defer close(done)
		return nil
	})
	<-done

	stepUntilCompleted(t, c)
}

func TestCoroutineErrorIsCollectedNotPropagated(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("work failed")
	c := NewCoroutine(context.Background(), func(ctx context.Context) error {
		return wantErr
	})

	stepUntilCompleted(t, c)
	require.ErrorIs(t, c.Err(), wantErr)
	require.True(t, c.IsCompleted(), "a failed coroutine still completes")
}

func TestCoroutinePanicIsRecovered(t *testing.T) {
	t.Parallel()

	c := NewCoroutine(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	stepUntilCompleted(t, c)
	require.ErrorContains(t, c.Err(), "panicked")
}

func TestDeferredCoroutineStartsOnFirstStep(t *testing.T) {
	t.Parallel()

	var ran atomic.Bool
	c := NewDeferredCoroutine(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	time.Sleep(20 * time.Millisecond)
	require.False(t, ran.Load(), "deferred work must not start before the first step")

	stepUntilCompleted(t, c)
	require.True(t, ran.Load())
}

func TestSyncCoroutineProducesThenCompletes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var n int
	sc := NewSyncCoroutine(func() (int, bool) {
		if n >= 3 {
			return 0, false
		}
		n++
		return n, true
	})

	for i := 1; i <= 3; i++ {
		require.NoError(t, sc.Step(ctx))
		v, ok := sc.Value()
		require.True(t, ok)
		require.Equal(t, i, v)
		require.False(t, sc.IsCompleted())
	}

	require.NoError(t, sc.Step(ctx))
	require.True(t, sc.IsCompleted(), "an exhausted step function completes the wrapper")

	// The last produced value is retained.
	v, ok := sc.Value()
	require.True(t, ok)
	require.Equal(t, 3, v)
}
