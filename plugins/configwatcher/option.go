package configwatcher

import "github.com/bft-labs/logship/pkg/logship"

// WithConfigWatcher returns a logship Option that enables config file
// watching. When enabled, the plugin monitors the given TOML file and
// invokes OnChange with the re-parsed contents after each change.
//
// Usage:
//
//	l, err := logship.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        Path: "/etc/logship/config.toml",
//	        OnChange: func(config map[string]any) {
//	            // schedule a restart with the new settings
//	        },
//	    }),
//	)
func WithConfigWatcher(cfg Config) logship.Option {
	plugin := New(cfg)
	return logship.WithPlugin(plugin)
}

// WithDefaultConfigWatcher returns a logship Option that enables config
// watching with default settings (debounce 100ms). Without a path and
// change handler the plugin stays disabled, so this is mostly useful as
// a base to copy from.
//
// Usage:
//
//	l, err := logship.New(cfg, configwatcher.WithDefaultConfigWatcher())
func WithDefaultConfigWatcher() logship.Option {
	return WithConfigWatcher(DefaultConfig())
}
