package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultPort is the default intake service port.
const DefaultPort = 80

// Config holds CLI configuration for logship.
type Config struct {
	Brokers  []string
	Topics   []string
	GroupID  string
	ClientID string

	Host   string
	Port   int
	APIKey string

	MaxBatchLength    int
	CompressionEnable bool
	CompressionLevel  int

	PollTimeout time.Duration
	HTTPTimeout time.Duration

	StateDir    string
	StartAt     string
	MetricsAddr string
	Once        bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ClientID:         "logship",
		Port:             DefaultPort,
		MaxBatchLength:   500,
		CompressionLevel: 5,
		PollTimeout:      time.Second,
		HTTPTimeout:      30 * time.Second,
		StartAt:          "start",
		StateDir:         "", // Derived from the first topic during Validate
		APIKey:           os.Getenv("LOGSHIP_API_KEY"),
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("brokers are required")
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("topics are required")
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api-key is required")
	}

	if c.StateDir == "" {
		// fallback derived layout
		c.StateDir = filepath.Join(defaultStateRoot(), "topic-"+c.Topics[0])
	}

	if c.Port == 0 {
		c.Port = DefaultPort
	}

	// The request URL is built from host and port alone; strip anything
	// a pasted URL would carry along.
	c.Host = strings.TrimPrefix(c.Host, "http://")
	c.Host = strings.TrimPrefix(c.Host, "https://")
	c.Host = strings.TrimSuffix(c.Host, "/")

	if c.PollTimeout <= 0 {
		return fmt.Errorf("poll timeout must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.StartAt != "start" && c.StartAt != "end" {
		return fmt.Errorf("start-at must be %q or %q", "start", "end")
	}

	return nil
}

// defaultStateRoot returns ~/.logship/state, falling back to a relative
// directory when the home directory cannot be determined.
func defaultStateRoot() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".logship", "state")
	}
	return filepath.Join(".logship", "state")
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a string slice if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setStringsFromString splits a comma separated string and sets the
// destination if any elements remain.
// Used for environment variables that come as strings.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
