// Package httpapi serves student clustering over HTTP.
//
// Routes:
//
//	POST /api/cluster   cluster a batch of students
//	GET  /api/health    liveness probe
//	GET  /metrics       Prometheus metrics
//
// Responses are gzip-compressed when the client accepts it, and requests
// beyond the configured rate are rejected with 429.
package httpapi
