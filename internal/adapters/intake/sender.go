// Package intake adapts the intake encoder and client to the
// application's batch sender port.
package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/metrics"
	"github.com/bft-labs/logship/internal/ports"
	"github.com/bft-labs/logship/pkg/intake"
)

// BatchSender implements ports.BatchSender on top of the intake
// encoder and client. One encoded payload per batch, one POST per
// payload.
type BatchSender struct {
	encoder *intake.Encoder
	client  *intake.Client
	logger  ports.Logger
}

// NewBatchSender creates a sender that encodes batches with encoder
// and delivers them with client.
func NewBatchSender(encoder *intake.Encoder, client *intake.Client, logger ports.Logger) *BatchSender {
	return &BatchSender{
		encoder: encoder,
		client:  client,
		logger:  logger,
	}
}

// Send encodes the batch and POSTs it to the intake service. A batch
// whose records carry no values encodes to nothing; the send is
// skipped and reported as success so the batch still leaves the store.
func (s *BatchSender) Send(ctx context.Context, batch *domain.Batch) error {
	payload, ok, err := s.encoder.Encode(batch.Values())
	if err != nil {
		metrics.SendErrorsTotal.WithLabelValues("encode").Inc()
		return fmt.Errorf("encode batch %s: %w", batch.Key, err)
	}
	if !ok {
		metrics.RecordsSkippedTotal.WithLabelValues(batch.Topic()).Add(float64(batch.Size()))
		s.logger.Debug("nothing to send, skipping request",
			ports.String("key", batch.Key),
			ports.Int("records", batch.Size()),
		)
		return nil
	}

	if skipped := batch.Size() - payload.Records; skipped > 0 {
		metrics.RecordsSkippedTotal.WithLabelValues(batch.Topic()).Add(float64(skipped))
	}

	start := time.Now()
	if err := s.client.Send(ctx, payload); err != nil {
		return err
	}

	metrics.SendLatency.Observe(time.Since(start).Seconds())
	metrics.PayloadBytes.Observe(float64(len(payload.Body)))
	metrics.BatchesSentTotal.WithLabelValues(batch.Topic()).Inc()
	metrics.RecordsTotal.WithLabelValues(batch.Topic(), "sent").Add(float64(payload.Records))
	return nil
}
