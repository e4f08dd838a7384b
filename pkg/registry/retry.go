package registry

import (
	"context"
	"errors"
	"time"
)

// retryableError wraps an error to indicate the request should be tried
// again. Only transient failures (connection errors, 5xx responses) are
// wrapped; 404s and decode errors return immediately.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retry executes fn up to attempts times with exponential backoff. The
// delay doubles after each failed attempt. Returns the last error if all
// attempts fail, or ctx.Err() when cancelled while waiting.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !errors.As(err, new(*retryableError)) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// retryWithBackoff runs fn with the default policy: 3 attempts starting
// at a 1 second delay.
func retryWithBackoff(ctx context.Context, fn func() error) error {
	return retry(ctx, 3, time.Second, fn)
}
