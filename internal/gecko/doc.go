// Package gecko provides the CoinGecko REST API client used by the caches.
//
// Upstream endpoints:
//   - GET /coins/markets: current market list, one page, market-cap descending
//   - GET /coins/{id}/market_chart: historical prices, days=365 or days=max
//
// All calls pass through a shared throttle gate (minimum spacing between
// calls, one outstanding request) and a bounded retry policy: only 429 and
// transport-level failures are retried, with a linearly growing capped delay
// plus jitter. A 404 on the one-year history window triggers a single
// max-range fallback call.
package gecko
