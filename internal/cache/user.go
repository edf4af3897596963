package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stud0000299683/bd-special/internal/repository"
)

// DefaultUserTTL is how long a user snapshot stays cached.
const DefaultUserTTL = 10 * time.Minute

// UserCache stores JSON snapshots of users under "user:<id>".
type UserCache struct {
	store Store
	ttl   time.Duration
}

func NewUserCache(store Store, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return &UserCache{store: store, ttl: ttl}
}

func UserKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (c *UserCache) Put(ctx context.Context, user *repository.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user %d: %w", user.ID, err)
	}
	return c.store.Set(ctx, UserKey(user.ID), string(data), c.ttl)
}

// Get returns ErrNotFound on a miss.
func (c *UserCache) Get(ctx context.Context, id int64) (*repository.User, error) {
	raw, err := c.store.Get(ctx, UserKey(id))
	if err != nil {
		return nil, err
	}

	var user repository.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decoding cached user %d: %w", id, err)
	}
	return &user, nil
}

func (c *UserCache) Invalidate(ctx context.Context, id int64) error {
	_, err := c.store.Delete(ctx, UserKey(id))
	return err
}
