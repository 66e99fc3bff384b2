package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure. After is the wait the server
// asked for through Retry-After, or zero.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Backoff is a retry policy. Only errors wrapped in [RetryableError] are
// retried. The wait starts at Delay and doubles after each attempt, capped
// at MaxDelay when it is set. A server-requested wait longer than the
// current delay replaces it, still subject to MaxDelay.
type Backoff struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, wait time.Duration, err error)
}

var (
	// APIBackoff is the policy for requests to a shapegrid server.
	APIBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}

	// RedisBackoff is the policy for Redis round trips, which either
	// recover quickly or not at all.
	RedisBackoff = Backoff{Attempts: 3, Delay: 25 * time.Millisecond, MaxDelay: 200 * time.Millisecond}
)

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts run out. It returns the last error, or ctx.Err() when the
// context ends during a wait.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var err error
	for i := 1; ; i++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || i == attempts {
			return err
		}

		wait := max(delay, re.After)
		if b.MaxDelay > 0 {
			wait = min(wait, b.MaxDelay)
		}
		if b.OnRetry != nil {
			b.OnRetry(i, wait, err)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
