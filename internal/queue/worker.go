package queue

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/stud0000299683/bd-special/internal/metrics"
)

// DefaultPollTimeout bounds each blocking pop so the worker notices
// cancellation within about this long.
const DefaultPollTimeout = time.Second

// Handler processes one item.
type Handler func(ctx context.Context, item string) error

type Worker struct {
	Queue       *Queue
	Handler     Handler
	PollTimeout time.Duration
	Logger      *zerolog.Logger
	Metrics     *metrics.Metrics
}

// Run pops and handles items until ctx is done. A failed item is logged
// and counted, never re-queued. Run returns nil on cancellation and an
// error only when Redis itself fails.
func (w *Worker) Run(ctx context.Context) error {
	timeout := w.PollTimeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	logger := zerolog.Nop()
	if w.Logger != nil {
		logger = *w.Logger
	}
	logger = logger.With().Str("queue", w.Queue.Key()).Logger()
	logger.Info().Msg("worker started")

	for {
		if ctx.Err() != nil {
			logger.Info().Msg("worker stopped")
			return nil
		}

		item, err := w.Queue.Pop(ctx, timeout)
		switch {
		case errors.Is(err, ErrEmpty):
			continue
		case err != nil:
			if ctx.Err() != nil {
				logger.Info().Msg("worker stopped")
				return nil
			}
			return err
		}

		w.handle(ctx, logger, item)
	}
}

func (w *Worker) handle(ctx context.Context, logger zerolog.Logger, item string) {
	if err := w.Handler(ctx, item); err != nil {
		logger.Error().Err(err).Str("item", item).Msg("item failed, dropping")
		if w.Metrics != nil {
			w.Metrics.QueueFailed.WithLabelValues(w.Queue.Key()).Inc()
		}
		return
	}

	logger.Debug().Str("item", item).Msg("item processed")
	if w.Metrics != nil {
		w.Metrics.QueueProcessed.WithLabelValues(w.Queue.Key()).Inc()
	}
}
