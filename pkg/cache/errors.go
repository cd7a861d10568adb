package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a cache after Close.
var ErrClosed = errors.New("cache: closed")

// RetryableError marks a transient backend failure (a dropped connection,
// a timeout) that is worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryAttempts and retryDelay bound RetryWithBackoff.
var (
	retryAttempts = 3
	retryDelay    = 200 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or runs out of attempts. The delay doubles after every failure.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var lastErr error

	for i := range retryAttempts {
		err := fn()
		if err == nil {
			return nil
		}
		if lastErr = err; !IsRetryable(err) {
			return err
		}
		if i == retryAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return lastErr
}
