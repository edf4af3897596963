// Package lib holds code that does not fit a single layer: the asynq job
// service (lib/job) and small shared helpers (lib/utils).
package lib
