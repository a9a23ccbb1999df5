package logship

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/logship/internal/app"
	"github.com/bft-labs/logship/internal/domain"
)

// Configuration defaults applied by Config.SetDefaults.
const (
	// DefaultPort is the intake service port.
	DefaultPort = 80

	// DefaultMaxBatchLength is the per-key batch flush threshold.
	DefaultMaxBatchLength = app.DefaultMaxBatchLength

	// DefaultCompressionLevel is the gzip level used when compression
	// is enabled and no level is configured.
	DefaultCompressionLevel = 5

	// DefaultPollTimeout bounds a single broker poll.
	DefaultPollTimeout = time.Second

	// DefaultHTTPTimeout bounds a single intake request.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultClientID identifies the consumer to the broker.
	DefaultClientID = "logship"

	// DefaultStartAt is where consumption begins with no known position.
	DefaultStartAt = "start"
)

// Config holds the configuration for a Logship instance.
// Zero values are replaced by defaults via SetDefaults; New does this
// automatically.
type Config struct {
	// Brokers are the Kafka seed broker addresses, host:port.
	Brokers []string

	// Topics are the topics whose records are shipped.
	Topics []string

	// GroupID is the consumer group. When set, delivered positions are
	// committed to the broker. When empty, positions are tracked in a
	// local state file under StateDir.
	GroupID string

	// ClientID identifies this consumer to the broker.
	// Default: "logship".
	ClientID string

	// Host is the intake service hostname.
	Host string

	// Port is the intake service port. Default: 80.
	Port int

	// APIKey authenticates against the intake service. It becomes the
	// final segment of the request path, so full request URLs are
	// sensitive.
	APIKey string

	// MaxBatchLength is the number of records a per-key batch may
	// reach before it is sent mid-call. Default: 500.
	MaxBatchLength int

	// CompressionEnable turns on gzip compression of payloads.
	CompressionEnable bool

	// CompressionLevel is the gzip level, 0 through 9. Default: 5.
	CompressionLevel int

	// PollTimeout bounds a single broker poll. Default: 1s.
	PollTimeout time.Duration

	// HTTPTimeout bounds a single intake request. Default: 30s.
	HTTPTimeout time.Duration

	// StateDir is where delivery positions are persisted when no
	// consumer group is configured. Default: ~/.logship/state.
	StateDir string

	// StartAt selects where consumption begins when no position is
	// known yet: "start" or "end". Default: "start".
	StartAt string

	// Once makes the agent drain the backlog and return at the first
	// empty poll instead of polling forever.
	Once bool
}

// SetDefaults fills in default values for unset fields.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = DefaultClientID
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.MaxBatchLength == 0 {
		c.MaxBatchLength = DefaultMaxBatchLength
	}
	if c.CompressionLevel == 0 {
		c.CompressionLevel = DefaultCompressionLevel
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
	if c.StateDir == "" {
		c.StateDir = defaultStateDir()
	}
	if c.StartAt == "" {
		c.StartAt = DefaultStartAt
	}
}

// Validate checks the configuration for errors. All returned errors
// wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("%w: at least one broker is required", domain.ErrInvalidConfig)
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("%w: at least one topic is required", domain.ErrInvalidConfig)
	}
	if c.Host == "" {
		return fmt.Errorf("%w: intake host is required", domain.ErrInvalidConfig)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: api key is required", domain.ErrInvalidConfig)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range [1, 65535]", domain.ErrInvalidConfig, c.Port)
	}
	if c.MaxBatchLength < 1 {
		return fmt.Errorf("%w: max batch length must be at least 1", domain.ErrInvalidConfig)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 9 {
		return fmt.Errorf("%w: compression level %d out of range [0, 9]", domain.ErrInvalidConfig, c.CompressionLevel)
	}
	if c.StartAt != "start" && c.StartAt != "end" {
		return fmt.Errorf("%w: start at must be %q or %q, got %q", domain.ErrInvalidConfig, "start", "end", c.StartAt)
	}
	if c.GroupID == "" && c.StateDir == "" {
		return fmt.Errorf("%w: state dir is required without a consumer group", domain.ErrInvalidConfig)
	}
	return nil
}

// defaultStateDir returns ~/.logship/state, falling back to a relative
// directory when the home directory cannot be determined.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".logship", "state")
	}
	return filepath.Join(home, ".logship", "state")
}
