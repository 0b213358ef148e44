package status

// Snapshot is the current view of one sink.
// It contains no logic and no memory of the past beyond current state
// and running totals.
type Snapshot struct {
	Sink                string
	Health              uint16
	LastError           string
	ConsecutiveFailures int
	Successes           int
	Failures            int
}
