// Package cache stores rendered artifacts keyed by the content they were
// rendered from.
//
// Keys are derived from a hash of the serialized tree plus the render
// options, so an edited tree never hits a stale entry and nothing needs to be
// invalidated explicitly. Two implementations are provided: [FileCache] for
// the CLI and [NullCache] for --no-cache.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the data for key and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
