package logship

import "time"

// State represents the lifecycle state of a Logship instance.
type State int

const (
	// StateStopped means the instance is not delivering records.
	StateStopped State = iota

	// StateStarting means Start() was called and plugins are initializing.
	StateStarting

	// StateRunning means the delivery loop is active.
	StateRunning

	// StateStopping means Stop() was called and shutdown is in progress.
	StateStopping

	// StateCrashed means the instance hit an unrecoverable error.
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// CanStart returns true if Start() may be called from this state.
func (s State) CanStart() bool {
	return s == StateStopped || s == StateCrashed
}

// CanStop returns true if Stop() may be called from this state.
func (s State) CanStop() bool {
	return s == StateRunning || s == StateStarting
}

// IsRunning returns true if the delivery loop is active.
func (s State) IsRunning() bool {
	return s == StateRunning
}

// StateChangeEvent is emitted on every lifecycle transition.
type StateChangeEvent struct {
	// Previous is the state before the transition
	Previous State

	// Current is the state after the transition
	Current State

	// Reason describes what triggered the transition
	Reason string
}

// FlushSuccessEvent is emitted after every record of a poll has been
// delivered to the intake service.
type FlushSuccessEvent struct {
	// RecordCount is the number of records in the delivered poll
	RecordCount int

	// Duration is how long delivery of the whole poll took
	Duration time.Duration
}

// FlushErrorEvent is emitted when delivering a poll fails. The records
// were not committed; they are polled again unless their batch was the
// one whose attempt failed.
type FlushErrorEvent struct {
	// Error is the failure that aborted the delivery
	Error error

	// RecordCount is the number of records in the failed poll
	RecordCount int

	// Retryable indicates whether the operation may succeed if retried
	Retryable bool
}

// EventHandler receives notifications about logship operations.
// Events are called synchronously from the delivery goroutine, so
// implementations should return quickly.
type EventHandler interface {
	// OnStateChange is called on every lifecycle transition.
	OnStateChange(event StateChangeEvent)

	// OnFlushSuccess is called after a poll is fully delivered.
	OnFlushSuccess(event FlushSuccessEvent)

	// OnFlushError is called when delivering a poll fails.
	OnFlushError(event FlushErrorEvent)
}

// BaseEventHandler provides no-op implementations of all EventHandler
// methods. Embed it to override only the events you care about.
type BaseEventHandler struct{}

// OnStateChange does nothing.
func (BaseEventHandler) OnStateChange(event StateChangeEvent) {}

// OnFlushSuccess does nothing.
func (BaseEventHandler) OnFlushSuccess(event FlushSuccessEvent) {}

// OnFlushError does nothing.
func (BaseEventHandler) OnFlushError(event FlushErrorEvent) {}
