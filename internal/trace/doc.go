// Package trace provides a tracing subsystem for the type store.
//
// The trace package records store operations (declarations, definitions,
// allocations, copies, deinitializations) to help diagnose layout and
// lifetime problems.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	xst inspect --trace=- --trace-level=value list.toml
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelStore: Declarations and definitions
//   - LevelValue: Everything including per-instance operations
package trace
