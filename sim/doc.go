// Package sim provides the discrete-event engine for the toll-plaza simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - journey.go: Journey lifecycle (arrived → abandoned | queued → in_service → departed)
//   - process.go: Cooperative processes that suspend on Timeout or Request
//   - simulator.go: The run context, arrival injection and the end-of-run summary
//
// # Architecture
//
// A Clock holds logical time and a heap of pending continuations. Processes
// are chains of Steps; each step suspends by scheduling its successor, either
// after a delay or when a Resource grants a booth. Everything in a run executes
// on one goroutine, so no state is locked. Independent runs (RunReplications)
// each own a Simulator and may execute in parallel.
//
// Sub-packages hold pure helpers with no dependency on sim:
//   - sim/variate/: service-time samplers, categorical and Bernoulli draws
//   - sim/stats/: time-weighted means, utilization, percentiles
//   - sim/trace/: journey transition recording
//
// sim/promexport/ sits on top of sim and exports a run summary as Prometheus
// gauges.
//
// # Key Interfaces
//
//   - variate.Sampler: service-duration source, one per lane
//   - Hook: observer of Resource transitions (enqueue, grant, release, withdraw);
//     the Recorder is one
package sim
