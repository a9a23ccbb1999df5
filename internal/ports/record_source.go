package ports

import (
	"context"

	"github.com/bft-labs/logship/internal/domain"
)

// RecordSource provides access to keyed records from a broker.
// Implementations consume from Kafka-compatible brokers, either inside a
// consumer group or from locally tracked partition offsets.
type RecordSource interface {
	// Open prepares the source for polling. For sources that track
	// offsets locally it loads the last persisted positions.
	Open(ctx context.Context) error

	// Poll returns the next slice of records. It blocks until records
	// arrive, the poll timeout elapses (empty slice, nil error), or ctx
	// is done. Returns domain.ErrSourceClosed once the source is closed.
	Poll(ctx context.Context) ([]domain.Record, error)

	// Commit marks the records as delivered. It must only be called
	// after every record in the slice has been handed off downstream.
	Commit(ctx context.Context, records []domain.Record) error

	// Close releases all resources held by the source.
	Close() error
}
