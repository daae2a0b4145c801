// Package observability provides structured logging construction and
// Prometheus metrics for the service.
package observability
