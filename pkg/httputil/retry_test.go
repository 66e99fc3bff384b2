package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errFlaky = errors.New("flaky")

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	calls := 0
	b := Backoff{Attempts: 4, Delay: time.Millisecond}
	err := b.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errFlaky}
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("Do() = %v after %d calls, want nil after 3", err, calls)
	}
}

func TestBackoffStopsOnFinalError(t *testing.T) {
	calls := 0
	b := Backoff{Attempts: 5, Delay: time.Millisecond}
	err := b.Do(context.Background(), func() error {
		calls++
		return errFlaky
	})
	if !errors.Is(err, errFlaky) || calls != 1 {
		t.Errorf("Do() = %v after %d calls, want errFlaky after 1", err, calls)
	}
}

func TestBackoffReturnsLastError(t *testing.T) {
	calls := 0
	b := Backoff{Attempts: 3, Delay: time.Millisecond}
	err := b.Do(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errFlaky}
	})
	if !errors.Is(err, errFlaky) || calls != 3 {
		t.Errorf("Do() = %v after %d calls, want errFlaky after 3", err, calls)
	}
}

func TestBackoffWaits(t *testing.T) {
	tests := []struct {
		name  string
		b     Backoff
		after time.Duration
		want  []time.Duration
	}{
		{"doubling", Backoff{Attempts: 4, Delay: time.Millisecond}, 0,
			[]time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}},
		{"capped", Backoff{Attempts: 4, Delay: time.Millisecond, MaxDelay: 3 * time.Millisecond}, 0,
			[]time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}},
		{"server wait", Backoff{Attempts: 2, Delay: time.Millisecond}, 5 * time.Millisecond,
			[]time.Duration{5 * time.Millisecond}},
		{"server wait capped", Backoff{Attempts: 2, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond}, time.Hour,
			[]time.Duration{2 * time.Millisecond}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var waits []time.Duration
			b := tt.b
			b.OnRetry = func(_ int, wait time.Duration, _ error) { waits = append(waits, wait) }
			_ = b.Do(context.Background(), func() error {
				return &RetryableError{Err: errFlaky, After: tt.after}
			})
			if len(waits) != len(tt.want) {
				t.Fatalf("waits = %v, want %v", waits, tt.want)
			}
			for i := range waits {
				if waits[i] != tt.want[i] {
					t.Errorf("waits[%d] = %v, want %v", i, waits[i], tt.want[i])
				}
			}
		})
	}
}

func TestBackoffCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := Backoff{Attempts: 3, Delay: time.Hour}
	err := b.Do(ctx, func() error {
		cancel()
		return &RetryableError{Err: errFlaky}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() = %v, want context.Canceled", err)
	}
}

func TestBackoffZeroAttempts(t *testing.T) {
	calls := 0
	_ = Backoff{}.Do(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errFlaky}
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
