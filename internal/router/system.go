package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stud0000299683/bd-special/internal/handler"
)

func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", h.Metrics.Serve())
}
