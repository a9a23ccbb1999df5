package ports

import "github.com/bft-labs/logship/pkg/log"

// Logger is the structured logging port. It is an alias for [log.Logger]
// so the application layer and the public API share one contract.
type Logger = log.Logger

// Field is an alias for [log.Field].
type Field = log.Field

// Field constructors re-exported for the application layer.
var (
	String   = log.String
	Int      = log.Int
	Int32    = log.Int32
	Int64    = log.Int64
	Uint64   = log.Uint64
	Float64  = log.Float64
	Bool     = log.Bool
	Duration = log.Duration
	Err      = log.Err
	Any      = log.Any
)
