// Package sim provides the calibration and transit-simulation engine for a
// three-belt industrial drying oven.
//
// # Reading Guide
//
// Start with these files to understand the core:
//   - calibration.go / anchor.go: fitting the prediction models from the
//     historical experiment table (linear, synergy, interpolation, anchor)
//   - plan.go: turning a frequency triple into per-belt stage durations
//   - clock.go: the tick-driven state machine (idle → running ⇄ paused →
//     completed) that animates transit against a plan
//   - gaps.go / timeline.go: the two independent feed-interruption models
//     (discrete moving void vs continuous fill ramp)
//
// # Architecture
//
// The engine runs on a single logical thread and owns no timers: the host
// drives it through Clock.Advance(now) at its own tick cadence, and every
// other per-tick read (gap projection, fill ramp) uses the same simulation
// time value via Clock.SimMinutes. The prediction side is stateless: fits
// produce immutable parameter values (OLSParams, AnchorParams, ...) that
// are replaced wholesale on recalibration, with the currently applied
// anchor injected explicitly into the allocator and thickness model.
package sim
