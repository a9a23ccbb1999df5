package logship

import "context"

// Plugin extends a Logship instance with optional functionality.
// Plugins are initialized in registration order when Start() is called
// and shut down in reverse order during Stop().
type Plugin interface {
	// Name returns a unique identifier for the plugin.
	Name() string

	// Initialize prepares the plugin for operation. A failure here
	// aborts startup and leaves the instance in StateCrashed.
	Initialize(ctx context.Context, config PluginConfig) error

	// Shutdown releases plugin resources. It is attempted for every
	// plugin during Stop() even when another plugin's shutdown fails.
	Shutdown(ctx context.Context) error
}

// PluginConfig carries the runtime configuration plugins may need.
type PluginConfig struct {
	// Brokers are the Kafka seed broker addresses
	Brokers []string

	// Topics are the consumed topics
	Topics []string

	// GroupID is the consumer group, empty in static offset mode
	GroupID string

	// StateDir is where local state lives
	StateDir string

	// Host is the intake service hostname
	Host string

	// Port is the intake service port
	Port int

	// APIKey authenticates against the intake service; do not log it
	APIKey string

	// Logger is the instance logger for plugin output
	Logger Logger
}

// BasePlugin provides no-op implementations of the Plugin interface.
// Embed it to implement only the methods you need.
type BasePlugin struct {
	name string
}

// NewBasePlugin creates a base plugin with the given name.
func NewBasePlugin(name string) BasePlugin {
	return BasePlugin{name: name}
}

// Name returns the plugin name.
func (p BasePlugin) Name() string { return p.name }

// Initialize does nothing.
func (BasePlugin) Initialize(ctx context.Context, config PluginConfig) error { return nil }

// Shutdown does nothing.
func (BasePlugin) Shutdown(ctx context.Context) error { return nil }
