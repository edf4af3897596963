package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stud0000299683/bd-special/internal/metrics"
)

type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Observe counts requests and records latency by route template. Unmatched
// routes are labelled "unmatched" to keep the label set bounded.
func (mm *MetricsMiddleware) Observe() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := statusOf(c, err)

			mm.metrics.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			mm.metrics.HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
