package pubsub

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSubscribe_ConfirmedBeforePublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client := newClient(t)

	sub, err := Subscribe(ctx, client, "news", "alerts")
	require.NoError(t, err)
	defer sub.Close()

	// No sleep: the subscription is live as soon as Subscribe returns.
	n, err := Publish(ctx, client, "alerts", "disk full")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	msg, err := sub.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, Message{Channel: "alerts", Payload: "disk full"}, msg)
}

func TestSubscribe_NoChannels(t *testing.T) {
	_, err := Subscribe(context.Background(), newClient(t))
	assert.Error(t, err)
}

func scriptedReceive(replies ...interface{}) func(context.Context) (interface{}, error) {
	return func(context.Context) (interface{}, error) {
		if len(replies) == 0 {
			return nil, errors.New("connection closed")
		}
		next := replies[0]
		replies = replies[1:]
		return next, nil
	}
}

func TestAwaitConfirmations_KeepsEarlyMessages(t *testing.T) {
	receive := scriptedReceive(
		&redis.Subscription{Kind: "subscribe", Channel: "news", Count: 1},
		&redis.Message{Channel: "news", Payload: "first"},
		&redis.Pong{},
		&redis.Subscription{Kind: "subscribe", Channel: "alerts", Count: 2},
	)

	pending, err := awaitConfirmations(context.Background(), receive, 2)
	require.NoError(t, err)
	assert.Equal(t, []Message{{Channel: "news", Payload: "first"}}, pending)
}

func TestAwaitConfirmations_Error(t *testing.T) {
	receive := scriptedReceive(&redis.Subscription{Kind: "subscribe", Channel: "news", Count: 1})

	_, err := awaitConfirmations(context.Background(), receive, 2)
	assert.Error(t, err)
}

func TestReceive_PendingFirst(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client := newClient(t)

	sub, err := Subscribe(ctx, client, "news")
	require.NoError(t, err)
	defer sub.Close()
	sub.pending = []Message{{Channel: "news", Payload: "early"}}

	_, err = Publish(ctx, client, "news", "late")
	require.NoError(t, err)

	first, err := sub.Receive(ctx)
	require.NoError(t, err)
	second, err := sub.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "early", first.Payload)
	assert.Equal(t, "late", second.Payload)
}

func TestListen_DeliversPendingFirst(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client := newClient(t)

	sub, err := Subscribe(ctx, client, "news")
	require.NoError(t, err)
	defer sub.Close()
	sub.pending = []Message{{Channel: "news", Payload: "early"}}

	_, err = Publish(ctx, client, "news", "late")
	require.NoError(t, err)

	errDone := errors.New("done")
	var seen []string
	err = Listen(ctx, sub, func(_ context.Context, msg Message) error {
		seen = append(seen, msg.Payload)
		if len(seen) == 2 {
			return errDone
		}
		return nil
	})

	assert.ErrorIs(t, err, errDone)
	assert.Equal(t, []string{"early", "late"}, seen)
}

func TestPublish_NoSubscribers(t *testing.T) {
	n, err := Publish(context.Background(), newClient(t), "nobody", "hello")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListen_StopsOnHandlerError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client := newClient(t)

	sub, err := Subscribe(ctx, client, "events")
	require.NoError(t, err)
	defer sub.Close()

	for _, payload := range []string{"one", "two", "stop", "never"} {
		_, err := Publish(ctx, client, "events", payload)
		require.NoError(t, err)
	}

	errStop := errors.New("stop requested")
	var seen []string
	err = Listen(ctx, sub, func(_ context.Context, msg Message) error {
		seen = append(seen, msg.Payload)
		if msg.Payload == "stop" {
			return errStop
		}
		return nil
	})

	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, []string{"one", "two", "stop"}, seen)
}

func TestListen_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := newClient(t)

	sub, err := Subscribe(ctx, client, "idle")
	require.NoError(t, err)
	defer sub.Close()

	done := make(chan error, 1)
	go func() { done <- Listen(ctx, sub, func(context.Context, Message) error { return nil }) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after cancel")
	}
}

func TestRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := RoundTrip(ctx, newClient(t), "news", "Hello subscribers!")
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Receivers)
	assert.Equal(t, "Hello subscribers!", result.Received.Payload)
	assert.Equal(t, "news", result.Received.Channel)
}
