package hub

import "errors"

// Sentinel errors for hub operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrCommandFailed is returned when a command could not be delivered
	// to the hub. Rule executions record this per step; it never aborts
	// the sequence.
	ErrCommandFailed = errors.New("hub: command delivery failed")

	// ErrNotStarted is returned when the connector is used before Start.
	ErrNotStarted = errors.New("hub: connector not started")
)
