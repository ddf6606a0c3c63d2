// Package cache implements the cache manager at the center of coinsync.
//
// The manager owns all cached upstream data and every path that refreshes it:
//   - a single full-market snapshot with a 15 minute TTL,
//   - comparison results keyed by canonical coin pair with a 60 second TTL,
//   - per-coin full-year histories kept warm by a periodic sweeper.
//
// Concurrent refreshes of the same key are collapsed into one upstream fetch
// (singleflight). Refresh failures never escape to callers as errors: the
// manager degrades to stale entries, partial results, or an explicit
// placeholder, and enqueues a reconciliation task when it has nothing at all
// to serve. The only fatal path is a snapshot refresh that fails before any
// snapshot has ever been cached.
package cache
