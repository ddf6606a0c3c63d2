// Package timeframe implements the Timeframe Aligner component.
//
// The aligner reduces two price series to their timestamp intersection so
// downstream charting sees the same x-axis for both coins:
//   - Pure function, no I/O and no shared state
//   - Output series have equal length and identical timestamp sequences
//   - Ascending timestamp order of the inputs is preserved
//   - An absent (empty) input disables alignment and both inputs pass through
package timeframe
