package httputil

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/matzehuels/pycompat/pkg/errors"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Policy.Do] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Policy controls how many times an operation is attempted and how long to
// wait between attempts. The delay doubles after each failed attempt.
type Policy struct {
	Attempts int           // Total attempts, values below 1 mean 1
	Delay    time.Duration // Initial delay between attempts

	// OnRetry, if set, is called before each wait with the 1-based attempt
	// that just failed.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy makes 3 attempts starting with a 1 second delay.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second}

// Do executes fn until it succeeds, returns a non-retryable error, or the
// attempts are used up. A rate-limit error carrying Retry-After stretches the
// wait to at least that long. Returns the last error if all attempts fail, or
// ctx.Err() if cancelled while waiting.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			wait := delay
			var rl *apperrors.RateLimitedError
			if errors.As(lastErr, &rl) && rl.RetryAfter > 0 {
				wait = max(wait, time.Duration(rl.RetryAfter)*time.Second)
			}
			if p.OnRetry != nil {
				p.OnRetry(i+1, lastErr)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				delay *= 2
			}
		}
	}
	return lastErr
}

// Retry executes fn up to attempts times with exponential backoff.
// See [Policy.Do].
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}
