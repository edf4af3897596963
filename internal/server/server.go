// Package server defines the Server container that owns the shared
// dependencies of the long-running commands (the HTTP API and the job
// worker).
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - PostgreSQL pool
//   - Redis client
//   - MongoDB client
//   - background job service (asynq)
//   - Prometheus metrics
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stud0000299683/bd-special/internal/config"
	"github.com/stud0000299683/bd-special/internal/database"
	"github.com/stud0000299683/bd-special/internal/document"
	"github.com/stud0000299683/bd-special/internal/lib/job"
	loggerPkg "github.com/stud0000299683/bd-special/internal/logger"
	"github.com/stud0000299683/bd-special/internal/metrics"
)

// Server is the application container, not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client
	Job           *job.JobService
	Metrics       *metrics.Metrics

	// Mongo is nil when MongoDB was unreachable at startup.
	Mongo *document.Client

	httpServer *http.Server
}

// NewRedisClient builds the Redis client, instrumented when New Relic is
// running. A failed ping is logged, not returned: Redis connects lazily and
// may come up later.
func NewRedisClient(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if loggerService != nil && loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}

	return redisClient
}

// New connects every store. PostgreSQL is required; Redis and MongoDB
// failures are logged and the server starts degraded. The job service is
// created but not started.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := NewRedisClient(cfg, logger, loggerService)

	mongoClient, err := document.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to MongoDB, continuing without MongoDB")
		mongoClient = nil
	}

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Mongo:         mongoClient,
		Job:           job.NewJobService(logger, cfg),
		Metrics:       metrics.New(),
	}, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server, if any, and then releases every
// dependency. Closing continues past failures; the errors are joined.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Mongo != nil {
		if err := s.Mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if err := s.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
	}

	return errors.Join(errs...)
}
