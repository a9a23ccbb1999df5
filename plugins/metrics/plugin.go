// Package metrics provides a Prometheus scrape endpoint for logship.
// When enabled, it serves the process's registered collectors over HTTP
// on a dedicated listener.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/logship/pkg/logship"
)

// Plugin implements the metrics endpoint.
// It runs its own HTTP server so scrapes never share a listener with
// anything else in the process.
type Plugin struct {
	mu sync.RWMutex

	// Configuration
	listenAddr string
	path       string

	// Runtime state
	logger logship.Logger
	server *http.Server
	addr   string
	wg     sync.WaitGroup
}

// Config holds configuration options for the metrics endpoint plugin.
type Config struct {
	// ListenAddr is the address the metrics server binds to, in
	// net.Listen form ("host:port"). Leaving it empty disables the
	// plugin.
	ListenAddr string

	// Path is the URL path the collectors are served under.
	// Default: /metrics
	Path string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":9090",
		Path:       "/metrics",
	}
}

// New creates a new metrics endpoint plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.Path == "" {
		cfg.Path = "/metrics"
	}

	return &Plugin{
		listenAddr: cfg.ListenAddr,
		path:       cfg.Path,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "metrics"
}

// Initialize binds the listener and starts serving. A bind failure is
// returned so startup aborts instead of running without metrics.
func (p *Plugin) Initialize(ctx context.Context, cfg logship.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	p.mu.Unlock()

	if p.listenAddr == "" {
		p.logger.Warn("Metrics endpoint disabled: no listen address configured")
		return nil
	}

	ln, err := net.Listen("tcp", p.listenAddr)
	if err != nil {
		return fmt.Errorf("metrics listen on %s: %w", p.listenAddr, err)
	}
	p.addr = ln.Addr().String()

	mux := http.NewServeMux()
	mux.Handle(p.path, promhttp.Handler())
	p.server = &http.Server{Handler: mux}

	p.logger.Info("Metrics endpoint plugin initialized")

	// Serve until Shutdown
	p.wg.Add(1)
	go p.serve(ln)

	return nil
}

// Shutdown stops the metrics server, letting in-flight scrapes finish.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.server == nil {
		return nil
	}
	err := p.server.Shutdown(ctx)
	p.wg.Wait()
	return err
}

func (p *Plugin) serve(ln net.Listener) {
	defer p.wg.Done()

	if err := p.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.logger.Error("Metrics endpoint: server error")
	}
}

// Ensure Plugin implements logship.Plugin.
var _ logship.Plugin = (*Plugin)(nil)
