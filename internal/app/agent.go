package app

import (
	"context"
	"errors"
	"time"

	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/metrics"
	"github.com/bft-labs/logship/internal/ports"
)

// finalFlushTimeout bounds the last flush attempt during shutdown.
const finalFlushTimeout = 5 * time.Second

// AgentConfig contains configuration for the agent loop.
type AgentConfig struct {
	// Once makes Run drain the backlog and return after the first
	// empty poll instead of polling forever.
	Once bool
}

// Agent orchestrates the ingest loop: poll records, write batches,
// commit positions.
type Agent struct {
	config  AgentConfig
	source  ports.RecordSource
	writer  *Writer
	logger  ports.Logger
	emitter SendEventEmitter
}

// SendEventEmitter is called on write success or failure.
type SendEventEmitter interface {
	OnFlushSuccess(recordCount int, duration time.Duration)
	OnFlushError(err error, recordCount int, retryable bool)
}

// NewAgent creates a new agent with the given dependencies.
func NewAgent(
	config AgentConfig,
	source ports.RecordSource,
	writer *Writer,
	logger ports.Logger,
	emitter SendEventEmitter,
) *Agent {
	return &Agent{
		config:  config,
		source:  source,
		writer:  writer,
		logger:  logger,
		emitter: emitter,
	}
}

// Run executes the main ingest loop.
// It polls records, groups them into per-key batches, and delivers them
// to the intake service. Positions are committed only after every
// record of a poll has been written, so an interrupted delivery is
// polled again rather than lost. Returns when the context is canceled,
// the source closes, or, in once mode, when the backlog is drained.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.source.Open(ctx); err != nil {
		return err
	}
	defer a.source.Close()

	backoff := newBackoff(DefaultBackoffInitial, DefaultBackoffMax)

	for {
		select {
		case <-ctx.Done():
			a.finalFlush()
			return ctx.Err()
		default:
		}

		records, err := a.source.Poll(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrSourceClosed) {
				a.finalFlush()
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			a.logger.Error("poll failed", ports.Err(err))
			metrics.SendErrorsTotal.WithLabelValues("source").Inc()
			backoff.Sleep(ctx)
			continue
		}

		if len(records) == 0 {
			if a.config.Once {
				a.finalFlush()
				return nil
			}
			continue
		}

		start := time.Now()
		if err := a.writer.Write(ctx, records); err != nil {
			a.logger.Error("write failed",
				ports.Err(err),
				ports.Int("records", len(records)),
				ports.Int("pending_batches", a.writer.PendingBatches()),
			)
			if a.emitter != nil {
				a.emitter.OnFlushError(err, len(records), true)
			}
			backoff.Sleep(ctx)
			continue
		}
		duration := time.Since(start)

		if err := a.source.Commit(ctx, records); err != nil {
			a.logger.Error("commit failed",
				ports.Err(err),
				ports.Int("records", len(records)),
			)
			metrics.SendErrorsTotal.WithLabelValues("commit").Inc()
		}

		a.logger.Info("wrote records",
			ports.Int("records", len(records)),
			ports.Duration("duration", duration),
		)
		if a.emitter != nil {
			a.emitter.OnFlushSuccess(len(records), duration)
		}
		backoff.Reset()
	}
}

// finalFlush gives batches that survived a failed write one last
// attempt before the loop exits. Their offsets were never committed, so
// redelivery after a restart may duplicate records.
func (a *Agent) finalFlush() {
	if a.writer.PendingBatches() == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
	defer cancel()

	if err := a.writer.Flush(ctx); err != nil {
		a.logger.Error("final flush failed",
			ports.Err(err),
			ports.Int("pending_batches", a.writer.PendingBatches()),
		)
	}
}
