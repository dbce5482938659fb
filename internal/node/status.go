package node

// Status is the execution state of a node within a run.
type Status string

const (
	// StatusIdle is the state of a node that has not run, or whose state was reset.
	StatusIdle Status = "idle"
	// StatusBusy marks a node whose action is currently executing.
	StatusBusy Status = "busy"
	// StatusSucceeded marks a node whose last action completed without error.
	StatusSucceeded Status = "succeeded"
	// StatusFailed marks a node whose last action returned an error or panicked.
	StatusFailed Status = "failed"
)

// Busy reports whether the node is executing.
func (s Status) Busy() bool {
	return s == StatusBusy
}

// Terminal reports whether the status is the final state of a run.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}
