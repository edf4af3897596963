// Package router builds the Echo instance: global middleware, the system
// routes and the versioned API groups.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/stud0000299683/bd-special/internal/handler"
	"github.com/stud0000299683/bd-special/internal/middleware"
	"github.com/stud0000299683/bd-special/internal/server"
)

// NewRouter wires middleware in order: the request ID first, then the New
// Relic transaction, then the context logger that reads both. Recovery is
// innermost.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	e.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.Global.RequestLogger(),
		mw.Metrics.Observe(),
		mw.RateLimit.Limit(),
		mw.Global.Recover(),
	)

	registerSystemRoutes(e, h)

	v1 := e.Group("/api/v1")
	registerUserRoutes(v1, h)
	registerPostRoutes(v1, h)
	registerDocumentRoutes(v1, h)

	return e
}
