package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries in process memory. It serves tests and runs
// without Redis.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore purges expired entries every cleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	val, found := s.cache.Get(key)
	if !found {
		return "", ErrNotFound
	}
	return val.(string), nil
}

func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	_, expiresAt, found := s.cache.GetWithExpiration(key)
	if !found {
		return 0, ErrNotFound
	}
	if expiresAt.IsZero() {
		return NoExpiry, nil
	}
	return time.Until(expiresAt), nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) (int64, error) {
	var deleted int64
	for _, key := range keys {
		if _, found := s.cache.Get(key); found {
			s.cache.Delete(key)
			deleted++
		}
	}
	return deleted, nil
}
