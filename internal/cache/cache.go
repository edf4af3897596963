// Package cache provides a small string key/value store with per-key TTLs,
// backed by Redis or by an in-process map.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for a key that does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// NoExpiry is the TTL reported for a key stored without an expiration.
const NoExpiry = time.Duration(-1)

// Store is implemented by RedisStore and MemoryStore.
//
// A ttl of zero stores the value without expiration.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Delete(ctx context.Context, keys ...string) (int64, error)
}
