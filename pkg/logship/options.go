package logship

import (
	"net/http"

	"github.com/bft-labs/logship/internal/domain"
	"github.com/bft-labs/logship/internal/ports"
	"github.com/bft-labs/logship/pkg/intake"
	"github.com/bft-labs/logship/pkg/log"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = intake.HTTPClient

// Logger is the interface for structured logging.
type Logger = log.Logger

// LogField represents a structured log field.
type LogField = log.Field

// Record is one unit pulled from the broker: a topic, an optional key,
// an opaque value, and its partition position.
type Record = domain.Record

// RecordSource supplies records to the delivery loop. The built-in
// source consumes from a Kafka-compatible broker; tests and embedders
// can substitute their own via WithRecordSource.
type RecordSource = ports.RecordSource

// Option configures optional behavior of Logship.
type Option func(*options)

// options holds the optional configuration for a Logship instance.
type options struct {
	httpClient   HTTPClient
	logger       ports.Logger
	eventHandler EventHandler
	plugins      []Plugin
	source       ports.RecordSource
}

// defaultOptions returns options with sensible defaults.
func defaultOptions(client *http.Client) options {
	return options{
		httpClient:   client,
		logger:       log.NewNoopLogger(),
		eventHandler: nil,
		plugins:      nil,
	}
}

// WithHTTPClient sets a custom HTTP client for intake communication.
// If not provided, a default client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for logship events.
// Events are called synchronously from the delivery goroutine.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when Logship starts.
// Plugins are initialized in registration order and shut down in
// reverse order. Use this for custom plugins; built-in plugins provide
// their own options, like configwatcher.WithConfigWatcher() and
// metrics.WithMetricsServer().
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithRecordSource replaces the built-in Kafka consumer with a custom
// record source. Brokers and Topics still need to be set to pass
// validation, but the built-in consumer is never created.
func WithRecordSource(source RecordSource) Option {
	return func(o *options) {
		o.source = source
	}
}
