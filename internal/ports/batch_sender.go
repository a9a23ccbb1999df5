package ports

import (
	"context"

	"github.com/bft-labs/logship/internal/domain"
)

// BatchSender transmits one batch to the ingestion service.
// Implementations handle payload encoding, HTTP communication, and
// authentication.
type BatchSender interface {
	// Send encodes and transmits the batch. A batch whose records all
	// turn out to be tombstones produces no request and returns nil.
	// Returns nil on success, an error on encoding or delivery failure.
	// Retrying is the caller's concern.
	Send(ctx context.Context, batch *domain.Batch) error
}
