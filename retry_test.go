package flowkit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryBuilderDefaults(t *testing.T) {
	t.Parallel()

	p := Retry(0).Policy()
	require.Equal(t, 1, p.MaxAttempts)

	p = Retry(3).WithExponentialBackoff(100*time.Millisecond, 0, time.Second).Policy()
	require.Equal(t, 3, p.MaxAttempts)
	require.Equal(t, 2.0, p.BackoffMultiplier)
	require.Equal(t, time.Second, p.MaxBackoff)

	p = Retry(2).WithConstantBackoff(50 * time.Millisecond).Policy()
	require.Equal(t, 50*time.Millisecond, p.InitialBackoff)
	require.Equal(t, 1.0, p.BackoffMultiplier)

	p = Retry(2).WithConstantBackoff(50 * time.Millisecond).Immediate().Policy()
	require.Equal(t, time.Duration(0), p.InitialBackoff)
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	fn := WithRetry(Retry(3).Immediate().Policy(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, fn(context.Background()))
	require.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("down")
	calls := 0
	fn := WithRetry(Retry(2).Immediate().Policy(), func(ctx context.Context) error {
		calls++
		return sentinel
	})

	err := fn(context.Background())
	require.ErrorIs(t, err, sentinel)
	require.ErrorContains(t, err, "2 attempts failed")
	require.Equal(t, 2, calls)
}

func TestWithRetryHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	fn := WithRetry(Retry(5).WithConstantBackoff(time.Hour).Policy(), func(ctx context.Context) error {
		cancel()
		return errors.New("transient")
	})

	require.ErrorIs(t, fn(ctx), context.Canceled)
}

func TestWithRetryDrivenByCoroutine(t *testing.T) {
	t.Parallel()

	calls := 0
	work := Go(context.Background(), WithRetry(Retry(3).Immediate().Policy(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}), WithName("fetch"))

	deadline := time.Now().Add(2 * time.Second)
	for !work.IsCompleted() && time.Now().Before(deadline) {
		require.NoError(t, work.Step(context.Background()))
		time.Sleep(time.Millisecond)
	}
	require.True(t, work.IsCompleted())
	require.NoError(t, work.Err())
	require.Equal(t, 2, calls)
}
