// Package httputil provides shared HTTP helpers for the remote classification
// and color-correction clients: retry with exponential backoff, a wrapper
// type marking errors as transient, and an instrumented request executor.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. The service clients wrap
// network errors and 5xx responses with it; anything else (a 4xx, a contract
// violation) is permanent and must not be retried, because re-sending the
// same sample cannot change the answer.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs op up to attempts times, doubling the wait after each transient
// failure. Permanent errors return immediately; a cancelled context returns
// ctx.Err(). After the last attempt the final transient error is returned so
// callers can still fail closed.
func Retry(ctx context.Context, attempts int, wait time.Duration, op func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := op(); err == nil {
			return nil
		} else if lastErr = err; !isTransient(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				wait *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff applies the defaults both service clients use: three
// attempts starting at one second.
func RetryWithBackoff(ctx context.Context, op func() error) error {
	return Retry(ctx, 3, time.Second, op)
}

func isTransient(err error) bool {
	return errors.As(err, new(*RetryableError))
}
