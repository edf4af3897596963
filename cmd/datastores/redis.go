package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/stud0000299683/bd-special/internal/cache"
	"github.com/stud0000299683/bd-special/internal/metrics"
	"github.com/stud0000299683/bd-special/internal/pubsub"
	"github.com/stud0000299683/bd-special/internal/queue"
)

func newCacheCommand(a *app) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Store a value with a TTL in Redis and read it back",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client := a.redisClient()
			defer client.Close()
			store := cache.NewRedisStore(client)

			const key = "user:100"
			if err := store.Set(ctx, key, "Ivan Ivanov", ttl); err != nil {
				return err
			}
			value, err := store.Get(ctx, key)
			if err != nil {
				return err
			}
			remaining, err := store.TTL(ctx, key)
			if err != nil {
				return err
			}
			if err := a.print("cached", map[string]any{
				"key":   key,
				"value": value,
				"ttl":   remaining.String(),
			}); err != nil {
				return err
			}

			if _, err := store.Delete(ctx, key); err != nil {
				return err
			}
			_, err = store.Get(ctx, key)
			return a.print("after delete", map[string]bool{"found": !errors.Is(err, cache.ErrNotFound)})
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 30*time.Second, "time to live of the cached value")
	return cmd
}

func newPubSubCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pubsub",
		Short: "Subscribe, publish one message and wait for it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			client := a.redisClient()
			defer client.Close()

			result, err := pubsub.RoundTrip(ctx, client, "test_channel", "Hello from Redis!")
			if err != nil {
				return err
			}
			return a.print("round trip", result)
		},
	}
}

func newPublishCommand(a *app) *cobra.Command {
	var (
		channel  string
		count    int
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish numbered news messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client := a.redisClient()
			defer client.Close()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for i := 1; i <= count; i++ {
				message := fmt.Sprintf("News #%d", i)
				receivers, err := pubsub.Publish(ctx, client, channel, message)
				if err != nil {
					return err
				}
				a.log.Info().Str("channel", channel).Int64("receivers", receivers).Msg(message)

				if i == count {
					break
				}
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "news", "channel to publish to")
	cmd.Flags().IntVar(&count, "count", 5, "number of messages")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "pause between messages")
	return cmd
}

func newSubscribeCommand(a *app) *cobra.Command {
	var channels []string

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Print messages from channels until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client := a.redisClient()
			defer client.Close()

			sub, err := pubsub.Subscribe(ctx, client, channels...)
			if err != nil {
				return err
			}
			defer sub.Close()

			a.log.Info().Strs("channels", channels).Msg("listening")
			return pubsub.Listen(ctx, sub, func(_ context.Context, msg pubsub.Message) error {
				return a.print("received", msg)
			})
		},
	}

	cmd.Flags().StringSliceVar(&channels, "channel", []string{"news"}, "channels to subscribe to")
	return cmd
}

func newQueueCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Push three tasks and pop them in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client := a.redisClient()
			defer client.Close()
			q := queue.New(client, queue.DefaultKey)

			if _, err := q.Push(ctx, "Task-1", "Task-2", "Task-3"); err != nil {
				return err
			}

			var done []string
			for {
				item, err := q.Pop(ctx, time.Second)
				if errors.Is(err, queue.ErrEmpty) {
					break
				}
				if err != nil {
					return err
				}
				done = append(done, item)
			}
			return a.print("processed", done)
		},
	}
}

func newQueueWorkerCommand(a *app) *cobra.Command {
	var (
		key         string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "queue-worker",
		Short: "Consume a Redis list until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client := a.redisClient()
			defer client.Close()

			m := metrics.New()
			if metricsAddr != "" {
				srv := &http.Server{Addr: metricsAddr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.log.Error().Err(err).Msg("metrics server failed")
					}
				}()
				defer srv.Close()
			}

			worker := &queue.Worker{
				Queue:   queue.New(client, key),
				Logger:  a.log,
				Metrics: m,
				Handler: func(_ context.Context, item string) error {
					a.log.Info().Str("task", item).Msg("done")
					return nil
				},
			}
			return worker.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&key, "key", "tasks", "list to consume")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")
	return cmd
}
