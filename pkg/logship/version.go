package logship

import (
	"github.com/bft-labs/logship/pkg/intake"
	"github.com/bft-labs/logship/pkg/log"
	"github.com/bft-labs/logship/pkg/offsets"
)

// Version information for the logship module.
const (
	// Version is the current version of the logship library.
	Version = "1.0.0"

	// MinCompatibleVersion is the oldest version this module remains compatible with.
	MinCompatibleVersion = "1.0.0"
)

// ModuleVersions returns the current versions of all sub-modules.
func ModuleVersions() map[string]string {
	return map[string]string{
		"logship": Version,
		"intake":  intake.Version,
		"offsets": offsets.Version,
		"log":     log.Version,
	}
}

// CompatibilityMatrix returns the minimum compatible version for each sub-module.
func CompatibilityMatrix() map[string]string {
	return map[string]string{
		"logship": MinCompatibleVersion,
		"intake":  intake.MinCompatibleVersion,
		"offsets": offsets.MinCompatibleVersion,
		"log":     log.MinCompatibleVersion,
	}
}
