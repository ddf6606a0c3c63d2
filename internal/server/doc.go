// Package server implements the HTTP API in front of the cache manager.
//
// Endpoints:
//   - GET /health: cache readiness and age
//   - GET /api/coins: market snapshot rows (limit, refresh)
//   - GET /api/compare: aligned two-coin comparison
//   - GET /api/coins/:id/history: single-coin full-year series
//   - GET /api/report: comparison flattened to BI report rows
//   - GET /debug/cache: cache and queue statistics
//
// The routing layer owns JSON encoding and parameter parsing only; every
// data decision lives in the cache manager. Responses are always well formed:
// degraded data carries a warning field instead of an error status.
package server
