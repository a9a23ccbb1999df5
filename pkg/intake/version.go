package intake

// Version information for the intake module.
const (
	// Version is the current version of the intake module.
	Version = "1.0.0"

	// MinCompatibleVersion is the oldest version this module remains compatible with.
	MinCompatibleVersion = "1.0.0"
)
