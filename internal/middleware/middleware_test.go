package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stud0000299683/bd-special/internal/config"
	"github.com/stud0000299683/bd-special/internal/errs"
	"github.com/stud0000299683/bd-special/internal/metrics"
	"github.com/stud0000299683/bd-special/internal/server"
)

func newTestServer(rateLimit float64) *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{
				CORSAllowedOrigins: []string{"*"},
				RateLimit:          rateLimit,
			},
		},
		Logger:  &logger,
		Metrics: metrics.New(),
	}
}

func newEcho(s *server.Server) (*echo.Echo, *Middlewares) {
	mw := NewMiddlewares(s)
	e := echo.New()
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(RequestID(), mw.ContextEnhancer.EnhanceContext(), mw.Metrics.Observe(), mw.RateLimit.Limit())
	return e, mw
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGlobalErrorHandler_HTTPError(t *testing.T) {
	e, _ := newEcho(newTestServer(0))
	e.GET("/x", func(c echo.Context) error {
		return errs.NewNotFoundError("User not found", false, nil)
	})

	rec := serve(e, http.MethodGet, "/x")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "User not found", body.Message)
}

func TestGlobalErrorHandler_UniqueViolation(t *testing.T) {
	e, _ := newEcho(newTestServer(0))
	e.POST("/users", func(c echo.Context) error {
		return &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_email_key"}
	})

	rec := serve(e, http.MethodPost, "/users")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "USER_ALREADY_EXISTS", decodeError(t, rec).Code)
}

func TestGlobalErrorHandler_HidesInternalErrors(t *testing.T) {
	e, _ := newEcho(newTestServer(0))
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("dial tcp 10.0.0.1:5432: connection refused")
	})

	rec := serve(e, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestGlobalErrorHandler_UnknownRoute(t *testing.T) {
	e, _ := newEcho(newTestServer(0))

	rec := serve(e, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)
}

func TestRequestID(t *testing.T) {
	e, _ := newEcho(newTestServer(0))
	e.GET("/id", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := serve(e, http.MethodGet, "/id")
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Body.String())
}

func TestMetrics_CountsByRouteAndStatus(t *testing.T) {
	s := newTestServer(0)
	e, _ := newEcho(s)
	e.GET("/users/:id", func(c echo.Context) error {
		if c.Param("id") == "0" {
			return errs.NewNotFoundError("User not found", false, nil)
		}
		return c.NoContent(http.StatusOK)
	})

	serve(e, http.MethodGet, "/users/1")
	serve(e, http.MethodGet, "/users/2")
	serve(e, http.MethodGet, "/users/0")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.Metrics.HTTPRequests.WithLabelValues("/users/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.HTTPRequests.WithLabelValues("/users/:id", "GET", "404")))
}

func TestRateLimit(t *testing.T) {
	e, _ := newEcho(newTestServer(1))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/ping").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/ping").Code)

	rec := serve(e, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, rec).Code)
}

func TestRateLimit_FractionalRateAllowsFirstRequest(t *testing.T) {
	e, _ := newEcho(newTestServer(0.25))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/ping").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, http.MethodGet, "/ping").Code)
}

func TestBurstFor(t *testing.T) {
	assert.Equal(t, 1, burstFor(0.25))
	assert.Equal(t, 1, burstFor(0.5))
	assert.Equal(t, 2, burstFor(1))
	assert.Equal(t, 3, burstFor(1.5))
	assert.Equal(t, 20, burstFor(10))
}

func TestGetLogger_Fallback(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
	assert.NotNil(t, LoggerFromContext(c.Request().Context()))
}
