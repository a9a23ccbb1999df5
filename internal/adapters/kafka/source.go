// Package kafka implements the record source port on top of a
// Kafka-compatible broker using franz-go.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/metrics"
	"github.com/bft-labs/logship/internal/ports"
	"github.com/bft-labs/logship/pkg/offsets"
)

// DefaultPollTimeout bounds a single poll when none is configured.
const DefaultPollTimeout = time.Second

// Config describes the broker connection and consume behavior.
type Config struct {
	// Brokers are the seed broker addresses, host:port
	Brokers []string

	// Topics are the topics to consume
	Topics []string

	// GroupID selects group mode when set. With a group the broker
	// tracks delivered positions; without one the source pins its own
	// positions through the offset repository.
	GroupID string

	// ClientID identifies this consumer to the broker
	ClientID string

	// PollTimeout is how long a single Poll waits for records before
	// returning an empty slice
	PollTimeout time.Duration

	// StartAtEnd begins consumption at the latest offsets instead of
	// the earliest when no position is known yet
	StartAtEnd bool
}

// Source consumes records from a Kafka-compatible broker. It runs in
// one of two modes: group mode, where delivered positions live with
// the broker and are committed after delivery, and static mode, where
// positions are kept in a local offset repository and records at or
// below a saved position are dropped after a restart.
//
// A Source serves one poll/commit loop; it is not safe for concurrent
// callers.
type Source struct {
	config Config
	repo   ports.OffsetRepository
	logger ports.Logger

	client   *kgo.Client
	state    offsets.State
	inflight []*kgo.Record
	closed   bool
}

// NewSource creates a source for the given configuration. repo is
// required in static mode (empty GroupID) and ignored in group mode.
func NewSource(cfg Config, repo ports.OffsetRepository, logger ports.Logger) *Source {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "logship"
	}
	return &Source{
		config: cfg,
		repo:   repo,
		logger: logger,
	}
}

// groupMode reports whether delivered positions are tracked by the
// broker-side consumer group.
func (s *Source) groupMode() bool {
	return s.config.GroupID != ""
}

// Open connects to the broker, creating a fresh client when the source
// was closed earlier. In static mode the last persisted positions are
// loaded first so that already delivered records can be dropped on the
// way in.
func (s *Source) Open(ctx context.Context) error {
	if s.client != nil && !s.closed {
		return nil
	}

	reset := kgo.NewOffset().AtStart()
	if s.config.StartAtEnd {
		reset = kgo.NewOffset().AtEnd()
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(s.config.Brokers...),
		kgo.ClientID(s.config.ClientID),
		kgo.ConsumeTopics(s.config.Topics...),
		kgo.ConsumeResetOffset(reset),
	}

	if s.groupMode() {
		opts = append(opts,
			kgo.ConsumerGroup(s.config.GroupID),
			kgo.DisableAutoCommit(),
		)
	} else {
		if s.repo == nil {
			return fmt.Errorf("offset repository is required without a consumer group")
		}
		state, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("load offsets: %w", err)
		}
		s.state = state
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return fmt.Errorf("create kafka client: %w", err)
	}
	s.client = client
	s.closed = false
	s.inflight = nil

	s.logger.Info("source opened",
		ports.String("group", s.config.GroupID),
		ports.Int("topics", len(s.config.Topics)),
		ports.Bool("start_at_end", s.config.StartAtEnd),
	)
	return nil
}

// Poll fetches the next records. It blocks for at most the configured
// poll timeout; an idle poll returns an empty slice and nil error.
// Returns domain.ErrSourceClosed once the client has been closed.
func (s *Source) Poll(ctx context.Context) ([]domain.Record, error) {
	if s.client == nil || s.closed {
		return nil, domain.ErrSourceClosed
	}

	pollCtx, cancel := context.WithTimeout(ctx, s.config.PollTimeout)
	defer cancel()

	fetches := s.client.PollFetches(pollCtx)
	if fetches.IsClientClosed() {
		return nil, domain.ErrSourceClosed
	}

	for _, fe := range fetches.Errors() {
		// the poll deadline surfaces as a fetch error; it just means
		// an idle poll, not a broker problem
		if errors.Is(fe.Err, context.DeadlineExceeded) || errors.Is(fe.Err, context.Canceled) {
			continue
		}
		s.logger.Error("fetch error",
			ports.String("topic", fe.Topic),
			ports.Int32("partition", fe.Partition),
			ports.Err(fe.Err),
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, fetches.NumRecords())
	if s.groupMode() {
		s.inflight = s.inflight[:0]
	}
	fetches.EachRecord(func(rec *kgo.Record) {
		if !s.groupMode() && s.delivered(rec.Topic, rec.Partition, rec.Offset) {
			return
		}
		records = append(records, toRecord(rec))
		if s.groupMode() {
			s.inflight = append(s.inflight, rec)
		}
	})
	return records, nil
}

// delivered reports whether the record's offset is at or below the
// last persisted position for its partition.
func (s *Source) delivered(topic string, partition int32, offset int64) bool {
	last, ok := s.state.Lookup(topic, partition)
	return ok && offset <= last
}

// Commit acknowledges the records returned by the most recent Poll.
// In group mode the offsets are committed to the broker; in static
// mode the positions advance and are persisted atomically.
func (s *Source) Commit(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	if s.groupMode() {
		if len(s.inflight) == 0 {
			return nil
		}
		if err := s.client.CommitRecords(ctx, s.inflight...); err != nil {
			return fmt.Errorf("commit records: %w", err)
		}
		s.observePositions(records)
		s.inflight = s.inflight[:0]
		return nil
	}

	for _, rec := range records {
		s.state.Advance(rec.Topic, rec.Partition, rec.Offset)
	}
	s.state.LastCommitAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.state); err != nil {
		return fmt.Errorf("save offsets: %w", err)
	}
	s.observePositions(records)
	return nil
}

// observePositions exports the latest committed offset per partition.
func (s *Source) observePositions(records []domain.Record) {
	for _, rec := range records {
		metrics.LastOffset.
			WithLabelValues(rec.Topic, strconv.Itoa(int(rec.Partition))).
			Set(float64(rec.Offset))
	}
}

// Close releases the broker client. Poll returns
// domain.ErrSourceClosed until the source is opened again.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// toRecord converts a broker record into the domain representation.
func toRecord(rec *kgo.Record) domain.Record {
	return domain.Record{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
		Key:       rec.Key,
		Value:     rec.Value,
		Timestamp: rec.Timestamp,
	}
}
