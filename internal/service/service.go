// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated data from the handler, reads through the user cache,
// enqueues background work and calls repository methods to reach
// PostgreSQL and MongoDB.
//
// Missing rows are reported as nil results with a nil error, the same
// way the repositories report them; the handler decides on a 404.
package service
