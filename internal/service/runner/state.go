package runner

// State tracks where a single run is in its lifecycle.
type State int

const (
	// Idle means the run has not started yet.
	Idle State = iota
	// Running means the external process is in flight.
	Running
	// Succeeded means the miner exited cleanly.
	Succeeded
	// Suppressed means the miner was stopped by a signal; not an error.
	Suppressed
	// Failed means the miner exited with a reportable non-zero code.
	Failed
)

// String renders the state for logs.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Suppressed:
		return "suppressed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
