// Package scheduler drives repeated miner runs from a cron expression.
// Each tick triggers at most one run; a tick arriving while the previous
// run is still going is skipped with a warning.
package scheduler
