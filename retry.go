package flowkit

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy describes how many times a coroutine's work function is
// attempted and how long to back off between attempts.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// BackoffMultiplier grows the delay each attempt. Values <= 1 keep a
	// constant delay.
	BackoffMultiplier float64

	// MaxBackoff caps the delay; <= 0 means no cap.
	MaxBackoff time.Duration
}

// RetryBuilder provides a fluent way to construct RetryPolicy values for
// use with WithRetry.
type RetryBuilder struct {
	policy RetryPolicy
}

// Retry creates a RetryBuilder with the given maxAttempts.
//
// maxAttempts <= 0 is treated as 1 (no retries).
func Retry(maxAttempts int) RetryBuilder {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return RetryBuilder{
		policy: RetryPolicy{MaxAttempts: maxAttempts},
	}
}

// WithExponentialBackoff configures exponential backoff:
//
//   - initial is the delay before the first retry.
//   - multiplier > 1 grows the delay each attempt (default 2.0 if <= 0).
//   - max caps the delay; if <= 0, there is no cap.
//
// Example:
//
//	Retry(3).WithExponentialBackoff(100*time.Millisecond, 2.0, 2*time.Second)
func (r RetryBuilder) WithExponentialBackoff(initial time.Duration, multiplier float64, max time.Duration) RetryBuilder {
	p := r.policy
	p.InitialBackoff = initial
	p.MaxBackoff = max
	if multiplier <= 0 {
		multiplier = 2.0
	}
	p.BackoffMultiplier = multiplier
	return RetryBuilder{policy: p}
}

// WithConstantBackoff configures a constant backoff between retries.
func (r RetryBuilder) WithConstantBackoff(delay time.Duration) RetryBuilder {
	p := r.policy
	p.InitialBackoff = delay
	p.MaxBackoff = 0
	p.BackoffMultiplier = 1.0
	return RetryBuilder{policy: p}
}

// Immediate disables any sleep between retries. Retries still respect
// MaxAttempts.
func (r RetryBuilder) Immediate() RetryBuilder {
	p := r.policy
	p.InitialBackoff = 0
	p.MaxBackoff = 0
	p.BackoffMultiplier = 0
	return RetryBuilder{policy: p}
}

// Policy returns the underlying RetryPolicy.
func (r RetryBuilder) Policy() RetryPolicy {
	return r.policy
}

// WithRetry wraps a coroutine work function so failed attempts are retried
// per the policy. Backoff sleeps respect ctx; a cancelled context aborts
// between attempts with ctx.Err():
//
//	work := flowkit.Go(ctx, flowkit.WithRetry(
//	    flowkit.Retry(3).WithConstantBackoff(50*time.Millisecond).Policy(),
//	    fetch,
//	))
func WithRetry(policy RetryPolicy, fn func(context.Context) error) func(context.Context) error {
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return func(ctx context.Context) error {
		var lastErr error
		delay := policy.InitialBackoff
		for attempt := 1; attempt <= attempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			lastErr = fn(ctx)
			if lastErr == nil {
				return nil
			}
			if attempt == attempts {
				break
			}
			if delay > 0 {
				t := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					t.Stop()
					return ctx.Err()
				case <-t.C:
				}
			}
			if policy.BackoffMultiplier > 1 {
				delay = time.Duration(float64(delay) * policy.BackoffMultiplier)
				if policy.MaxBackoff > 0 && delay > policy.MaxBackoff {
					delay = policy.MaxBackoff
				}
			}
		}
		return fmt.Errorf("flowkit: %d attempts failed: %w", attempts, lastErr)
	}
}
