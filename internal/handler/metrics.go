package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/stud0000299683/bd-special/internal/metrics"
)

type MetricsHandler struct {
	metrics *metrics.Metrics
}

func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: m}
}

// Serve exposes the Prometheus registry.
func (h *MetricsHandler) Serve() echo.HandlerFunc {
	return echo.WrapHandler(h.metrics.Handler())
}
