package ports

import "github.com/bft-labs/logship/pkg/offsets"

// OffsetRepository persists delivered positions for crash recovery when
// the source does not use broker-side consumer groups. It is an alias for
// [offsets.Repository] so adapters and the public API share one definition.
type OffsetRepository = offsets.Repository
