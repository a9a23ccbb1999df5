// Package configwatcher provides config file monitoring for logship.
// When enabled, it watches the agent's TOML config file and notifies
// the embedding application when the file changes, so the application
// can rebuild the instance with the new settings.
package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/logship/pkg/logship"
)

// Plugin implements config file watching.
// It monitors a single TOML file and invokes the configured callback
// with the re-parsed contents after each change.
type Plugin struct {
	mu sync.RWMutex

	// Configuration
	path          string
	debounceDelay time.Duration
	onChange      func(config map[string]any)

	// Runtime state
	logger   logship.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// Path is the TOML config file to watch.
	// Leaving it empty disables the plugin.
	Path string

	// DebounceDelay is the delay to wait after a file change before
	// re-parsing. Editors produce several events per save.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// OnChange is called with the re-parsed file contents after each
	// change. Files that fail to parse are logged and dropped without
	// a call. Leaving it nil disables the plugin.
	OnChange func(config map[string]any)
}

// DefaultConfig returns a Config with sensible defaults.
// Path and OnChange still have to be set for the plugin to do anything.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
		onChange:      cfg.OnChange,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize sets up the plugin and starts the file watcher.
func (p *Plugin) Initialize(ctx context.Context, cfg logship.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	p.mu.Unlock()

	if p.path == "" || p.onChange == nil {
		p.logger.Warn("Config watcher disabled: path or change handler not configured")
		return nil
	}

	// Create cancellable context for the watcher loop
	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("Config watcher plugin initialized")

	// Start watcher loop
	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the config watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

// watchLoop watches for changes to the config file.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("Config watcher: failed to create watcher")
		return
	}
	defer watcher.Close()

	// Watch the directory rather than the file itself so atomic saves
	// (write to a temp file, rename over the original) keep reporting.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		p.logger.Error("Config watcher: failed to watch directory")
		return
	}

	filename := filepath.Base(p.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceReload(ctx, p.debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			_ = err // logged as generic error
			p.logger.Error("Config watcher: watcher error")
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context, delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(delay, func() {
		p.reload(ctx)
	})
}

// reload re-parses the config file and hands it to the callback.
// Unreadable or invalid files are dropped so a half-written save never
// reaches the application.
func (p *Plugin) reload(ctx context.Context) {
	// The debounce timer can fire after Shutdown; a canceled context
	// means the notification is stale.
	if ctx.Err() != nil {
		return
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		p.logger.Warn("Config watcher: failed to read config file")
		return
	}

	var parsed map[string]any
	if err := toml.Unmarshal(data, &parsed); err != nil {
		p.logger.Warn("Config watcher: ignoring invalid config file")
		return
	}

	p.logger.Info("Config watcher: config file changed")
	p.onChange(parsed)
}

// Ensure Plugin implements logship.Plugin.
var _ logship.Plugin = (*Plugin)(nil)
