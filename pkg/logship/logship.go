package logship

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	intakeAdapter "github.com/bft-labs/logship/internal/adapters/intake"
	"github.com/bft-labs/logship/internal/adapters/kafka"
	"github.com/bft-labs/logship/internal/app"
	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/ports"
	"github.com/bft-labs/logship/pkg/intake"
	"github.com/bft-labs/logship/pkg/log"
	"github.com/bft-labs/logship/pkg/offsets"
)

// Logship is a record delivery agent that ships Kafka records to an
// HTTP log intake service. Use New() to create an instance, then
// Start() to begin delivery.
type Logship struct {
	config    Config
	opts      options
	lifecycle *app.Lifecycle
	agent     *app.Agent
	source    ports.RecordSource
	logger    ports.Logger

	// Plugin support
	plugins        []Plugin
	pluginShutdown *sync.Once

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Logship instance with the given configuration.
// The instance is created in StateStopped; call Start() to begin delivery.
// Returns an error if configuration is invalid.
func New(cfg Config, opts ...Option) (*Logship, error) {
	// Set defaults
	cfg.SetDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate module version compatibility
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	// Apply options
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	o := defaultOptions(httpClient)
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	// Create event emitter wrapper
	var emitter eventEmitterWrapper
	if o.eventHandler != nil {
		emitter = eventEmitterWrapper{handler: o.eventHandler}
	}

	// Create lifecycle manager
	lifecycle := app.NewLifecycle(logger, &emitter)

	// Create the delivery pipeline: encoder -> client -> sender -> writer
	encoder, err := intake.NewEncoder(cfg.CompressionEnable, cfg.CompressionLevel)
	if err != nil {
		return nil, err
	}
	client := intake.NewClient(o.httpClient, intake.Endpoint{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
	}, logger)
	sender := intakeAdapter.NewBatchSender(encoder, client, logger)
	writer := app.NewWriter(cfg.MaxBatchLength, sender, logger)

	// Create the record source unless one was injected
	source := o.source
	if source == nil {
		var repo ports.OffsetRepository
		if cfg.GroupID == "" {
			repo = offsets.NewFileRepository(cfg.StateDir)
		}
		source = kafka.NewSource(kafka.Config{
			Brokers:     cfg.Brokers,
			Topics:      cfg.Topics,
			GroupID:     cfg.GroupID,
			ClientID:    cfg.ClientID,
			PollTimeout: cfg.PollTimeout,
			StartAtEnd:  cfg.StartAt == "end",
		}, repo, logger)
	}

	agent := app.NewAgent(app.AgentConfig{Once: cfg.Once}, source, writer, logger, &emitter)

	return &Logship{
		config:    cfg,
		opts:      o,
		lifecycle: lifecycle,
		agent:     agent,
		source:    source,
		logger:    logger,
		plugins:   o.plugins,
	}, nil
}

// Start begins record delivery in the background.
// Returns immediately after starting the delivery goroutine.
// Returns an error if already running or if startup fails.
// The provided context is used for the lifetime of the delivery loop.
func (l *Logship) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}

	// Transition to starting
	if err := l.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	// Create cancellable context
	runCtx, cancel := context.WithCancel(ctx)
	l.ctx = runCtx
	l.cancel = cancel
	l.lifecycle.SetCancel(cancel)

	// Plugins shut down exactly once per run, whether through Stop()
	// or through the agent finishing on its own.
	shutdownOnce := new(sync.Once)
	l.pluginShutdown = shutdownOnce

	// Initialize plugins
	pluginCfg := PluginConfig{
		Brokers:  l.config.Brokers,
		Topics:   l.config.Topics,
		GroupID:  l.config.GroupID,
		StateDir: l.config.StateDir,
		Host:     l.config.Host,
		Port:     l.config.Port,
		APIKey:   l.config.APIKey,
		Logger:   l.logger,
	}
	for i, p := range l.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			l.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			// Unwind the plugins that already initialized.
			for j := i - 1; j >= 0; j-- {
				_ = l.plugins[j].Shutdown(context.Background())
			}
			cancel()
			_ = l.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		l.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	// Start the agent in a goroutine
	l.lifecycle.AddWorker()
	go func() {
		defer l.lifecycle.WorkerDone()

		// Transition to running
		if err := l.lifecycle.TransitionTo(app.StateRunning, "agent starting"); err != nil {
			l.logger.Error("failed to transition to running", ports.Err(err))
			return
		}

		// Run the agent loop
		err := l.agent.Run(runCtx)

		// Handle completion
		if err != nil && !errors.Is(err, context.Canceled) {
			l.logger.Error("agent error", ports.Err(err))
			if runCtx.Err() == nil {
				shutdownOnce.Do(l.shutdownPlugins)
			}
			_ = l.lifecycle.TransitionTo(app.StateCrashed, err.Error())
			return
		}

		// A nil return with a live context means the agent finished on
		// its own, in once mode or because the source closed. Mark the
		// instance stopped so Status() reflects completion. When Stop()
		// won the transition race it owns the shutdown instead.
		if runCtx.Err() == nil {
			if terr := l.lifecycle.TransitionTo(app.StateStopping, "agent finished"); terr == nil {
				shutdownOnce.Do(l.shutdownPlugins)
				_ = l.lifecycle.TransitionTo(app.StateStopped, "agent finished")
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the agent.
// Pending batches get one final delivery attempt and, in static offset
// mode, positions are persisted. Waits up to 30 seconds before forcing
// shutdown. Returns nil on graceful shutdown, ErrShutdownTimeout if
// forced.
func (l *Logship) Stop() error {
	l.mu.Lock()

	if !l.lifecycle.CanStop() {
		l.mu.Unlock()
		return domain.ErrNotRunning
	}

	// Transition to stopping
	if err := l.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		l.mu.Unlock()
		return err
	}

	// Cancel the context
	if l.cancel != nil {
		l.cancel()
	}

	once := l.pluginShutdown

	l.mu.Unlock()

	// Wait for workers with timeout
	err := l.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	// Shutdown plugins (in reverse order)
	if once != nil {
		once.Do(l.shutdownPlugins)
	}

	// Transition to stopped
	if err != nil {
		_ = l.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = l.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}

	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (l *Logship) Status() State {
	return convertState(l.lifecycle.State())
}

// shutdownPlugins shuts plugins down in reverse initialization order.
// A failed shutdown is logged and does not stop the others.
func (l *Logship) shutdownPlugins() {
	shutdownCtx := context.Background()
	for i := len(l.plugins) - 1; i >= 0; i-- {
		p := l.plugins[i]
		if err := p.Shutdown(shutdownCtx); err != nil {
			l.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
		} else {
			l.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnFlushSuccess(recordCount int, duration time.Duration) {
	if e.handler == nil {
		return
	}
	e.handler.OnFlushSuccess(FlushSuccessEvent{
		RecordCount: recordCount,
		Duration:    duration,
	})
}

func (e *eventEmitterWrapper) OnFlushError(err error, recordCount int, retryable bool) {
	if e.handler == nil {
		return
	}
	e.handler.OnFlushError(FlushErrorEvent{
		Error:       err,
		RecordCount: recordCount,
		Retryable:   retryable,
	})
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}

// validateModuleVersions checks that all module versions are compatible.
// Returns an error if any module version is below its minimum compatible version.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"intake":  {intake.Version, intake.MinCompatibleVersion},
		"offsets": {offsets.Version, offsets.MinCompatibleVersion},
		"log":     {log.Version, log.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}

// isVersionCompatible checks if version >= minVersion using semantic versioning.
// Assumes versions are in format "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	// Parse versions (simplified semver comparison)
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
