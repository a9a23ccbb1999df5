package metrics

import "github.com/bft-labs/logship/pkg/logship"

// WithMetricsServer returns a logship Option that serves the process's
// Prometheus collectors over HTTP.
//
// Usage:
//
//	l, err := logship.New(cfg,
//	    metrics.WithMetricsServer(metrics.Config{
//	        ListenAddr: ":9090",
//	    }),
//	)
func WithMetricsServer(cfg Config) logship.Option {
	plugin := New(cfg)
	return logship.WithPlugin(plugin)
}

// WithDefaultMetricsServer returns a logship Option that serves metrics
// on :9090 under /metrics.
//
// Usage:
//
//	l, err := logship.New(cfg, metrics.WithDefaultMetricsServer())
func WithDefaultMetricsServer() logship.Option {
	return WithMetricsServer(DefaultConfig())
}
