// Package retry provides a small retry-with-backoff helper for calls against
// a rate-limited backend. The backoff state lives in an explicit counter so a
// caller can keep it across independent calls (the backend throttles per
// client, not per request).
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrAttemptsExhausted is returned when every attempt failed with a
// retryable error.
var ErrAttemptsExhausted = errors.New("attempts exhausted")

// Sleep waits for the given duration or until the context is done. It is a
// parameter so tests can run on a fake clock.
type Sleep func(ctx context.Context, d time.Duration) error

// Policy describes how many times to try and how long to wait between
// retryable failures.
type Policy struct {
	MaxAttempts int
	// Backoff maps the number of consecutive retryable failures (1-based)
	// to a wait duration.
	Backoff func(consecutive int) time.Duration
}

// LinearCapped grows the wait linearly with the consecutive failure count,
// capped at max.
func LinearCapped(step, max time.Duration) func(int) time.Duration {
	return func(consecutive int) time.Duration {
		d := step * time.Duration(consecutive)
		if d > max {
			return max
		}
		return d
	}
}

// Do invokes fn up to p.MaxAttempts times. Errors for which retryable
// returns true increment *consecutive and wait p.Backoff(*consecutive)
// before the next attempt; any other error is returned immediately. A
// success resets *consecutive to zero. The consecutive counter is shared
// with the caller so it survives across Do invocations until a success.
func Do(ctx context.Context, p Policy, sleep Sleep, consecutive *int, retryable func(error) bool, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			*consecutive = 0
			return nil
		}

		if !retryable(err) {
			return err
		}

		lastErr = err
		*consecutive++

		if err := sleep(ctx, p.Backoff(*consecutive)); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: %w", ErrAttemptsExhausted, lastErr)
}
