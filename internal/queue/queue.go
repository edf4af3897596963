// Package queue is a FIFO work queue on a Redis list: producers RPUSH,
// workers BLPOP.
//
// Delivery is at-most-once. An item is gone from the list as soon as it is
// popped; if the handler fails or the worker dies, the item is lost.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by Pop when nothing arrived before the timeout.
var ErrEmpty = errors.New("queue: empty")

// DefaultKey is the list used by the demonstration producer and worker.
const DefaultKey = "task_queue"

type Queue struct {
	client redis.UniversalClient
	key    string
}

func New(client redis.UniversalClient, key string) *Queue {
	return &Queue{client: client, key: key}
}

func (q *Queue) Key() string {
	return q.key
}

// Push appends items to the tail and returns the new length.
func (q *Queue) Push(ctx context.Context, items ...string) (int64, error) {
	if len(items) == 0 {
		return q.Len(ctx)
	}

	values := make([]any, len(items))
	for i, item := range items {
		values[i] = item
	}

	n, err := q.client.RPush(ctx, q.key, values...).Result()
	if err != nil {
		return 0, fmt.Errorf("pushing to %s: %w", q.key, err)
	}
	return n, nil
}

// Pop removes the head item, blocking up to timeout. Redis counts BLPOP
// timeouts in whole seconds, so anything below a second waits one second.
// A zero timeout blocks until an item arrives.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (string, error) {
	res, err := q.client.BLPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrEmpty
	}
	if err != nil {
		return "", fmt.Errorf("popping from %s: %w", q.key, err)
	}
	// BLPOP replies with [key, value].
	return res[1], nil
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
