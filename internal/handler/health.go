package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/stud0000299683/bd-special/internal/middleware"
	"github.com/stud0000299683/bd-special/internal/server"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// healthCheck probes one dependency. A failing required check makes the
// service unhealthy (503); an optional one only degrades it.
type healthCheck struct {
	name     string
	required bool
	ping     func(ctx context.Context) error
}

// HealthHandler serves GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	checks  []healthCheck
	timeout time.Duration
}

// NewHealthHandler registers the checks named in
// observability.health_checks.checks.
func NewHealthHandler(s *server.Server) *HealthHandler {
	obs := s.Config.Observability
	h := &HealthHandler{Handler: NewHandler(s), timeout: 5 * time.Second}
	if obs == nil {
		return h
	}
	if obs.HealthChecks.Timeout > 0 {
		h.timeout = obs.HealthChecks.Timeout
	}

	if obs.HealthCheckEnabled("database") && s.DB != nil {
		h.checks = append(h.checks, healthCheck{name: "database", required: true, ping: s.DB.Pool.Ping})
	}
	if obs.HealthCheckEnabled("redis") && s.Redis != nil {
		h.checks = append(h.checks, healthCheck{name: "redis", ping: func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}})
	}
	if obs.HealthCheckEnabled("mongo") {
		h.checks = append(h.checks, healthCheck{name: "mongo", ping: func(ctx context.Context) error {
			if s.Mongo == nil {
				return errors.New("not connected")
			}
			return s.Mongo.Ping(ctx, readpref.Primary())
		}})
	}
	return h
}

// CheckHealth answers 200 when every required check passes, with status
// "degraded" if an optional one failed, and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{}, len(h.checks))
	status := statusHealthy

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check.ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		if err == nil {
			checks[check.name] = map[string]interface{}{
				"status":        statusHealthy,
				"response_time": elapsed.String(),
			}
			logger.Debug().Str("check", check.name).Dur("response_time", elapsed).Msg("health check passed")
			continue
		}

		checks[check.name] = map[string]interface{}{
			"status":        statusUnhealthy,
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}
		logger.Error().Err(err).Str("check", check.name).Dur("response_time", elapsed).Msg("health check failed")
		h.recordFailure(check.name, elapsed, err)

		if check.required {
			status = statusUnhealthy
		} else if status == statusHealthy {
			status = statusDegraded
		}
	}

	response := map[string]interface{}{
		"status":      status,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	logger.Info().Str("status", status).Dur("total_duration", time.Since(start)).Msg("health check completed")

	if status == statusUnhealthy {
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(check string, elapsed time.Duration, err error) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       check,
		"operation":        "health_check",
		"error_type":       check + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
