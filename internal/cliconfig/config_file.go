package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Brokers           []string `toml:"brokers"`
	Topics            []string `toml:"topics"`
	GroupID           string   `toml:"group_id"`
	ClientID          string   `toml:"client_id"`
	Host              string   `toml:"host"`
	Port              int      `toml:"port"`
	APIKey            string   `toml:"api_key"`
	MaxBatchLength    int      `toml:"max_batch_length"`
	CompressionEnable *bool    `toml:"compression_enable"`
	CompressionLevel  int      `toml:"compression_level"`
	PollTimeout       string   `toml:"poll_timeout"`
	HTTPTimeout       string   `toml:"http_timeout"`
	StateDir          string   `toml:"state_dir"`
	StartAt           string   `toml:"start_at"`
	MetricsAddr       string   `toml:"metrics_addr"`
	Once              *bool    `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.logship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".logship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setStrings("brokers", fc.Brokers, &cfg.Brokers)
	s.setStrings("topics", fc.Topics, &cfg.Topics)
	s.setString("group", fc.GroupID, &cfg.GroupID)
	s.setString("client-id", fc.ClientID, &cfg.ClientID)
	s.setString("host", fc.Host, &cfg.Host)
	s.setString("api-key", fc.APIKey, &cfg.APIKey)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("start-at", fc.StartAt, &cfg.StartAt)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)

	if err := s.setDuration("poll-timeout", fc.PollTimeout, &cfg.PollTimeout); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setInt("port", fc.Port, &cfg.Port)
	s.setInt("max-batch-length", fc.MaxBatchLength, &cfg.MaxBatchLength)
	s.setInt("compression-level", fc.CompressionLevel, &cfg.CompressionLevel)

	s.setBool("compress", fc.CompressionEnable, &cfg.CompressionEnable)
	s.setBool("once", fc.Once, &cfg.Once)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
