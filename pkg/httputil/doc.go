// Package httputil provides HTTP retry utilities for the registry client.
//
// # Retry
//
// [Policy.Do] wraps a request with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses (honouring Retry-After)
//
// Only errors wrapped with [Retryable] are retried; everything else, such as
// a 404, is returned immediately:
//
//	err := httputil.DefaultPolicy.Do(ctx, func() error {
//	    return fetch(ctx)
//	})
//
// # Defaults
//
//   - Attempts: 3
//   - Initial delay: 1 second, doubling after each failure
package httputil
