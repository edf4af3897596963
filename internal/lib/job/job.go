// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - You enqueue tasks (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer) using asynq.Server.
package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/stud0000299683/bd-special/internal/config"
)

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client
	server *asynq.Server
	logger *zerolog.Logger
	deps   *HandlerDeps
}

// RedisOpt converts the Redis config into Asynq's connection options.
func RedisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Workers are shared by queue weight: critical 6, default 3, low 1.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := RedisOpt(&cfg.Redis)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		Logger:   newAsynqLogger(logger),
		LogLevel: asynq.InfoLevel,
	})

	return &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		logger: logger,
	}
}

// InitHandlers stores the dependencies the task handlers work with. It must
// be called before Start.
func (j *JobService) InitHandlers(deps HandlerDeps) {
	j.deps = &deps
}

// Mux routes task types to their handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskUserCreated, j.handleUserCreatedTask)
	return mux
}

// Start launches the worker goroutines and returns.
func (j *JobService) Start() error {
	if j.deps == nil {
		return errors.New("job handlers not initialized")
	}

	j.logger.Info().Msg("Starting background job server")
	return j.server.Start(j.Mux())
}

// EnqueueUserCreated schedules the fan-out for a newly created user.
func (j *JobService) EnqueueUserCreated(ctx context.Context, payload UserCreatedPayload) error {
	task, err := NewUserCreatedTask(payload)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueueing %s: %w", TaskUserCreated, err)
	}

	j.logger.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("enqueued user created task")
	return nil
}

// Stop waits for running tasks and closes the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
