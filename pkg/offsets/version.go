package offsets

// Version information for the offsets module.
const (
	// Version is the current version of the offsets module.
	Version = "1.0.0"

	// MinCompatibleVersion is the oldest version this module remains compatible with.
	MinCompatibleVersion = "1.0.0"
)
