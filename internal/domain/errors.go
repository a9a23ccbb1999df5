package domain

import "errors"

// Domain errors represent error conditions in the logship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("logship: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("logship: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("logship: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("logship: invalid configuration")

	// ErrInvalidTransition is returned when a lifecycle state change is not allowed.
	ErrInvalidTransition = errors.New("logship: invalid state transition")

	// ErrSourceClosed is returned by a record source once it has been closed.
	ErrSourceClosed = errors.New("logship: record source closed")
)
