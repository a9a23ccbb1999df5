package app

import (
	"context"
	"time"

	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/metrics"
	"github.com/bft-labs/logship/internal/ports"
)

// DefaultMaxBatchLength is the flush threshold used when none is configured.
const DefaultMaxBatchLength = 500

// Writer accumulates records into per-key batches and flushes them to
// the batch sender. Each Writer owns its batch state; two writers never
// share batches.
type Writer struct {
	store          *domain.BatchStore
	maxBatchLength int
	sender         ports.BatchSender
	logger         ports.Logger
}

// NewWriter creates a writer that sends a batch once it reaches
// maxBatchLength records and flushes everything left at the end of each
// Write call.
func NewWriter(maxBatchLength int, sender ports.BatchSender, logger ports.Logger) *Writer {
	if maxBatchLength < 1 {
		maxBatchLength = DefaultMaxBatchLength
	}
	return &Writer{
		store:          domain.NewBatchStore(),
		maxBatchLength: maxBatchLength,
		sender:         sender,
		logger:         logger,
	}
}

// Write groups the records by batch key, sending any batch that reaches
// the size threshold, then flushes all remaining batches. The first
// failed send aborts the call: the failing batch has already left the
// store, batches that were never attempted stay pending for a later
// call.
func (w *Writer) Write(ctx context.Context, records []domain.Record) error {
	defer w.updatePendingGauge()

	for _, rec := range records {
		batch := w.store.Append(rec)
		if batch.Size() >= w.maxBatchLength {
			if err := w.sendBatch(ctx, batch.Key); err != nil {
				return err
			}
		}
	}
	return w.flushAll(ctx)
}

// Flush attempts every pending batch in key order and stops at the
// first failure.
func (w *Writer) Flush(ctx context.Context) error {
	defer w.updatePendingGauge()
	return w.flushAll(ctx)
}

func (w *Writer) flushAll(ctx context.Context) error {
	for _, key := range w.store.Keys() {
		if err := w.sendBatch(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// sendBatch removes the batch from the store and hands it to the
// sender. The batch is gone once an attempt starts, whatever the
// outcome; redelivery is the source's concern.
func (w *Writer) sendBatch(ctx context.Context, key string) error {
	batch := w.store.Take(key)
	if batch == nil || batch.Empty() {
		return nil
	}

	start := time.Now()
	if err := w.sender.Send(ctx, batch); err != nil {
		metrics.RecordsTotal.WithLabelValues(batch.Topic(), "failed").Add(float64(batch.Size()))
		metrics.SendErrorsTotal.WithLabelValues("delivery").Inc()
		w.logger.Error("batch send failed",
			ports.String("key", batch.Key),
			ports.Int("records", batch.Size()),
			ports.Err(err),
		)
		return err
	}

	w.logger.Debug("batch sent",
		ports.String("key", batch.Key),
		ports.Int("records", batch.Size()),
		ports.Duration("duration", time.Since(start)),
	)
	return nil
}

func (w *Writer) updatePendingGauge() {
	metrics.BatchesPending.Set(float64(w.store.Len()))
}

// PendingBatches returns the number of batches not yet attempted.
func (w *Writer) PendingBatches() int {
	return w.store.Len()
}

// PendingRecords returns the number of records not yet attempted.
func (w *Writer) PendingRecords() int {
	return w.store.Records()
}
