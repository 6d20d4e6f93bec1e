// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when converting between Go's int and the fixed-width vertex and edge types.
//
// Use cases:
//   - Narrowing caller parameters (cluster counts) to the vertex width
//   - Validating vertex ids read from datasets before they are renumbered
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
