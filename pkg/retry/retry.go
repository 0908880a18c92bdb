// Package retry provides a bounded exponential-backoff wrapper for provider
// calls. Callers opt in; nothing retries automatically.
package retry

import (
	"context"
	"errors"
	"time"
)

// DefaultAttempts and DefaultInitialDelay match the checkout flow's provider
// retry policy: up to 3 attempts with delays doubling from 2 seconds.
const (
	DefaultAttempts     = 3
	DefaultInitialDelay = 2 * time.Second
)

type stopError struct {
	err error
}

func (e *stopError) Error() string { return e.err.Error() }
func (e *stopError) Unwrap() error { return e.err }

// Stop wraps an error so Do gives up immediately instead of retrying.
// Callers use it for failures where another attempt cannot help, such as a
// provider rejecting the request outright.
func Stop(err error) error {
	return &stopError{err: err}
}

// Do runs fn up to attempts times, sleeping initialDelay before the second
// attempt and doubling the delay after each failure. It returns nil on the
// first success, the last error once attempts are exhausted, or the context
// error if ctx is cancelled while waiting. An error wrapped with Stop ends
// the loop at once and is returned unwrapped.
func Do(ctx context.Context, attempts int, initialDelay time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := initialDelay
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}

		if err = fn(ctx); err == nil {
			return nil
		}
		var stop *stopError
		if errors.As(err, &stop) {
			return stop.err
		}
	}
	return err
}
