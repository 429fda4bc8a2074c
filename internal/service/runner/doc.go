// Package runner orchestrates a single miner invocation: snapshot the
// artifact directory, run the container, diff the snapshots and either
// announce the new artifacts and re-render the index or report the failure.
//
// A run moves through Idle -> Running -> {Succeeded, Suppressed, Failed}.
// There is no retry and no partial-failure recovery; repeating a run is the
// scheduler's concern.
package runner
