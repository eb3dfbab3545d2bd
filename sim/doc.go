// Package sim implements the closure correlations and the Lagrangian
// slug-tracking model of a transient two-phase pipe-flow engine.
//
// # Reading Guide
//
// Start with these files to understand the core:
//   - section.go: PipeSection (the Eulerian control volume), FlowRegime enum
//   - geometry.go: stratified/annular cross-section geometry from holdup
//   - wall_friction.go, interfacial_friction.go: regime-dependent shear closures
//   - slug_tracker.go: slug lifecycle (create, grow/decay, merge, exit,
//     dissipate) and the Lagrangian/Eulerian mass ledger
//   - simulator.go, metrics.go: the per-timestep loop and run aggregates
//
// # Architecture
//
// The external momentum/continuity solver owns the per-section flow state and
// regime tag. Each timestep it asks WallFriction and InterfacialFriction for
// shear source terms, then lets the SlugTracker advance: the tracker resets
// every section's slug flags, moves each slug with the Bendiksen front
// velocity, marks the sections it covers and overrides their effective holdup,
// which feeds the next friction evaluation. Mass moved between the Lagrangian
// slugs and the Eulerian cells is double-entry booked (borrowed/returned) so
// the conservation residual is available as a diagnostic at any time.
//
// Closure calculators are stateless and may be evaluated concurrently across
// sections; the SlugTracker is strictly single-threaded and must run between
// the regime update and the next momentum step.
package sim
