package llm

import (
	"context"
	"errors"
	"time"
)

const (
	retryAttempts     = 3
	retryInitialDelay = 5 * time.Second
)

// Retryer wraps calls into the NLU collaborator with bounded exponential
// backoff on ErrRateLimited. Any other error propagates on first
// occurrence. The backoff waits on a timer and honours context
// cancellation instead of blocking the goroutine unconditionally.
type Retryer struct {
	attempts     int
	initialDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

// NewRetryer returns a Retryer with the default policy: 3 total attempts
// with 5s then 10s between them.
func NewRetryer() *Retryer {
	return &Retryer{
		attempts:     retryAttempts,
		initialDelay: retryInitialDelay,
		sleep:        sleepContext,
	}
}

// Do runs op, retrying rate-limited failures per the Retryer's policy, and
// returns op's value. After the final rate-limited attempt the last error
// is propagated.
func Do[T any](ctx context.Context, r *Retryer, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	delay := r.initialDelay
	var lastErr error
	for i := 0; i < r.attempts; i++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return zero, err
		}
		lastErr = err
		if i < r.attempts-1 {
			if serr := r.sleep(ctx, delay); serr != nil {
				return zero, serr
			}
			delay *= 2
		}
	}
	return zero, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
