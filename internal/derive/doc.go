// Package derive computes the audit's derived power-quality columns from a
// raw measurement table.
//
// Enrich is a pure function: it never mutates the input table, and running it
// twice on the same table yields identical output. Per-row degenerate cases
// (zero mean voltage or current, zero apparent power) substitute a defined
// value of 0 instead of propagating NaN, and are counted in Stats so callers
// can surface a warning when a non-trivial fraction of rows is affected.
//
// Imbalance uses the sample (n-1) standard deviation divisor across the
// three phases of a row, consistently for voltage and current.
package derive
