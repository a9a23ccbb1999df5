// Package logship provides an embeddable agent that ships Kafka records
// to an HTTP log intake service.
//
// Logship consumes records from Kafka-compatible brokers, groups them
// into per-key batches, and delivers them as comma-joined JSON payloads
// to the intake endpoint. It can be used as a standalone CLI application
// or embedded as a library in other Go programs.
//
// # Basic Usage
//
// To embed logship in your application:
//
//	cfg := logship.Config{
//	    Brokers: []string{"localhost:9092"},
//	    Topics:  []string{"app-logs"},
//	    GroupID: "logship",
//	    Host:    "intake.example.com",
//	    APIKey:  "your-api-key",
//	}
//
//	agent, err := logship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := agent.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := agent.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Configuration
//
// Create a [Config] with at minimum Brokers, Topics, Host, and APIKey.
// All other fields have sensible defaults set via [Config.SetDefaults].
// Without a GroupID the agent tracks delivered positions itself in a
// state file under StateDir.
//
// # Event Handling
//
// To receive notifications about logship operations, implement
// [EventHandler] and pass it via [WithEventHandler]:
//
//	handler := &myEventHandler{}
//	agent, err := logship.New(cfg, logship.WithEventHandler(handler))
//
// Events are called synchronously from the delivery goroutine.
// Implementations should return quickly to avoid blocking delivery.
//
// # Dependency Injection
//
// For testing, you can inject custom implementations of external
// dependencies:
//
//	agent, err := logship.New(cfg,
//	    logship.WithHTTPClient(mockClient),
//	    logship.WithLogger(customLogger),
//	    logship.WithRecordSource(fakeSource),
//	)
//
// # Lifecycle States
//
// A Logship instance can be in one of five states: [StateStopped],
// [StateStarting], [StateRunning], [StateStopping], or [StateCrashed].
// Use [Logship.Status] to query the current state.
//
// # Plugins
//
// Logship supports optional plugins for extended functionality:
//
//	import "github.com/bft-labs/logship/plugins/configwatcher"
//	import "github.com/bft-labs/logship/plugins/metrics"
//
//	agent, err := logship.New(cfg,
//	    configwatcher.WithConfigWatcher(watcherCfg),
//	    metrics.WithMetricsServer(metrics.DefaultConfig()),
//	)
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// Use [ModuleVersions] to get versions of all sub-modules and
// [CompatibilityMatrix] to check minimum compatible versions.
package logship
