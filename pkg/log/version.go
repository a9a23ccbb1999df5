package log

// Version information for the log module.
const (
	// Version is the current version of the log module.
	Version = "1.0.0"

	// MinCompatibleVersion is the oldest version this module remains compatible with.
	MinCompatibleVersion = "1.0.0"
)
