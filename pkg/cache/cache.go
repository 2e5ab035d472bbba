// Package cache provides byte-oriented caches for registry responses.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for teams or CI runners
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys are built with [Key] so every entry is namespaced by what produced it.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Key joins a namespace and key parts into a cache key.
//
//	Key("pypi", "requests", "2.25.1") // "pypi:requests:2.25.1"
func Key(namespace string, parts ...string) string {
	return namespace + ":" + strings.Join(parts, ":")
}
