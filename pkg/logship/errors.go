package logship

import "github.com/bft-labs/logship/internal/domain"

// Sentinel errors returned by the public API. They alias the internal
// definitions so callers can match them with errors.Is.
var (
	// ErrAlreadyRunning is returned by Start when the instance is
	// already starting or running.
	ErrAlreadyRunning = domain.ErrAlreadyRunning

	// ErrNotRunning is returned by Stop when there is nothing to stop.
	ErrNotRunning = domain.ErrNotRunning

	// ErrShutdownTimeout is returned by Stop when the delivery loop
	// does not exit within the shutdown timeout.
	ErrShutdownTimeout = domain.ErrShutdownTimeout

	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = domain.ErrInvalidConfig
)
