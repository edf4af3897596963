// Package pubsub wraps Redis publish/subscribe.
//
// Subscribe only returns once Redis has confirmed every channel, so a
// message published after it returns is never lost to a subscription that
// was still in flight.
package pubsub

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Message struct {
	Channel string `json:"channel"`
	Payload string `json:"payload"`
}

// Handler processes one message. Returning an error stops Listen.
type Handler func(ctx context.Context, msg Message) error

// Publish sends message to channel and returns the number of subscribers
// that received it.
func Publish(ctx context.Context, client redis.UniversalClient, channel, message string) (int64, error) {
	n, err := client.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, fmt.Errorf("publishing to %s: %w", channel, err)
	}
	return n, nil
}

// Subscription is read by a single consumer, either through Receive and
// Listen or through Channel.
type Subscription struct {
	ps *redis.PubSub
	// pending holds messages that arrived while Subscribe was still waiting
	// for confirmations. Receive and Listen hand them out first.
	pending []Message
}

// Subscribe subscribes to channels and waits for the confirmations.
func Subscribe(ctx context.Context, client redis.UniversalClient, channels ...string) (*Subscription, error) {
	if len(channels) == 0 {
		return nil, errors.New("pubsub: no channels given")
	}

	ps := client.Subscribe(ctx, channels...)
	pending, err := awaitConfirmations(ctx, ps.Receive, len(channels))
	if err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribing to %v: %w", channels, err)
	}

	return &Subscription{ps: ps, pending: pending}, nil
}

// awaitConfirmations reads until n subscription confirmations were seen and
// returns the messages received on already confirmed channels meanwhile.
func awaitConfirmations(ctx context.Context, receive func(context.Context) (interface{}, error), n int) ([]Message, error) {
	var pending []Message
	for confirmed := 0; confirmed < n; {
		msg, err := receive(ctx)
		if err != nil {
			return nil, err
		}
		switch m := msg.(type) {
		case *redis.Subscription:
			confirmed++
		case *redis.Message:
			pending = append(pending, Message{Channel: m.Channel, Payload: m.Payload})
		}
	}
	return pending, nil
}

// Receive blocks for the next message. A deadline on ctx bounds the wait.
func (s *Subscription) Receive(ctx context.Context) (Message, error) {
	if msg, ok := s.nextPending(); ok {
		return msg, nil
	}

	msg, err := s.ps.ReceiveMessage(ctx)
	if err != nil {
		return Message{}, err
	}
	return Message{Channel: msg.Channel, Payload: msg.Payload}, nil
}

func (s *Subscription) nextPending() (Message, bool) {
	if len(s.pending) == 0 {
		return Message{}, false
	}
	msg := s.pending[0]
	s.pending = s.pending[1:]
	return msg, true
}

// Channel delivers messages until the subscription is closed. It must not
// be mixed with Receive, and it does not replay messages buffered by
// Subscribe; Listen does.
func (s *Subscription) Channel() <-chan *redis.Message {
	return s.ps.Channel()
}

func (s *Subscription) Close() error {
	return s.ps.Close()
}

// Listen feeds every message to handler until ctx is done, the subscription
// is closed or handler fails. Cancellation is not an error.
func Listen(ctx context.Context, sub *Subscription, handler Handler) error {
	for msg, ok := sub.nextPending(); ok; msg, ok = sub.nextPending() {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := handler(ctx, Message{Channel: msg.Channel, Payload: msg.Payload}); err != nil {
				return err
			}
		}
	}
}

// RoundTripResult is what one publish/receive cycle observed.
type RoundTripResult struct {
	Receivers int64
	Received  Message
}

// RoundTrip subscribes to channel, starts a receiving goroutine, publishes
// message and waits for it to arrive.
func RoundTrip(ctx context.Context, client redis.UniversalClient, channel, message string) (*RoundTripResult, error) {
	sub, err := Subscribe(ctx, client, channel)
	if err != nil {
		return nil, err
	}
	defer sub.Close()

	type received struct {
		msg Message
		err error
	}
	done := make(chan received, 1)
	go func() {
		msg, err := sub.Receive(ctx)
		done <- received{msg: msg, err: err}
	}()

	receivers, err := Publish(ctx, client, channel, message)
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("receiving from %s: %w", channel, r.err)
		}
		return &RoundTripResult{Receivers: receivers, Received: r.msg}, nil
	}
}
