package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (LOGSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setStringsFromString("brokers", os.Getenv("LOGSHIP_BROKERS"), &cfg.Brokers)
	s.setStringsFromString("topics", os.Getenv("LOGSHIP_TOPICS"), &cfg.Topics)
	s.setString("group", os.Getenv("LOGSHIP_GROUP_ID"), &cfg.GroupID)
	s.setString("client-id", os.Getenv("LOGSHIP_CLIENT_ID"), &cfg.ClientID)
	s.setString("host", os.Getenv("LOGSHIP_HOST"), &cfg.Host)
	s.setString("api-key", os.Getenv("LOGSHIP_API_KEY"), &cfg.APIKey)
	s.setString("state-dir", os.Getenv("LOGSHIP_STATE_DIR"), &cfg.StateDir)
	s.setString("start-at", os.Getenv("LOGSHIP_START_AT"), &cfg.StartAt)
	s.setString("metrics-addr", os.Getenv("LOGSHIP_METRICS_ADDR"), &cfg.MetricsAddr)

	if err := s.setDuration("poll-timeout", os.Getenv("LOGSHIP_POLL_TIMEOUT"), &cfg.PollTimeout); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("LOGSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("port", os.Getenv("LOGSHIP_PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("max-batch-length", os.Getenv("LOGSHIP_MAX_BATCH_LENGTH"), &cfg.MaxBatchLength); err != nil {
		return err
	}
	if err := s.setIntFromString("compression-level", os.Getenv("LOGSHIP_COMPRESSION_LEVEL"), &cfg.CompressionLevel); err != nil {
		return err
	}

	s.setBoolFromString("compress", os.Getenv("LOGSHIP_COMPRESSION_ENABLE"), &cfg.CompressionEnable)
	s.setBoolFromString("once", os.Getenv("LOGSHIP_ONCE"), &cfg.Once)

	return nil
}
