// Package model defines shared data types used across coinsync.
//
// Conventions:
//   - Timestamps on price points: int64 milliseconds since Unix epoch,
//     matching the upstream wire format
//   - Prices: float64, passed through from upstream without arithmetic
//   - Coin ids: lower-case upstream slugs (e.g. "bitcoin")
//   - Nullable upstream numerics: *float64, nil when upstream sent null
package model
