// Package middleware stores the global Echo middleware: request IDs,
// request-scoped logging, New Relic tracing, Prometheus metrics,
// rate limiting, CORS and panic recovery, plus the global error handler.
package middleware
