// Package server exposes the governor over HTTP for collaborating
// services.
//
// Endpoints:
//
//	POST /v1/charge          admit and price a metered operation
//	GET  /v1/status          read-only budget snapshot
//	GET  /v1/projection      deterministic spend extrapolation
//	POST /v1/override/reset  authorized emergency reset
//	GET  /v1/audit           recent audit records
//	GET  /healthz            liveness probe
//	GET  /metrics            Prometheus scrape endpoint
//
// Governor errors map onto HTTP status codes: a closed gate returns 429
// with a Retry-After hint pointing at the next daily reset, invalid
// units return 400, and an unauthorized override returns 403.
package server
