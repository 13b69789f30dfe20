package siri

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// NATSConfig configures the NATS transport and the durable active-subscription store.
type NATSConfig struct {
	// URL is the NATS server URL used by the example programs.
	URL string `yaml:"url"`

	// RequestSubject is the subject subscription requests are published on when
	// the client request carries no TargetURL.
	RequestSubject string `yaml:"requestSubject"`

	// ResponseSubject is the subject subscription responses are received on.
	ResponseSubject string `yaml:"responseSubject"`

	// KVBucket is the JetStream KV bucket holding active subscriptions.
	KVBucket string `yaml:"kvBucket"`
}

// Config is the configuration for the Manager.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h".
type Config struct {
	// ResponseTimeout is how long a registered batch waits for its subscription
	// response. Entries still pending when it elapses are expired.
	// Recommended: 10 seconds.
	ResponseTimeout time.Duration `yaml:"responseTimeout"`

	// OperationTimeout bounds KV operations performed by the durable active store.
	// Recommended: 5 seconds.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// NATS controls the transport subjects and KV bucket.
	NATS NATSConfig `yaml:"nats"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		ResponseTimeout:  10 * time.Second,
		OperationTimeout: 5 * time.Second,
		NATS: NATSConfig{
			URL:             "nats://127.0.0.1:4222",
			RequestSubject:  "siri.subscription.request",
			ResponseSubject: "siri.subscription.response",
			KVBucket:        "siri-active-subscriptions",
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.ResponseTimeout == 0 {
		cfg.ResponseTimeout = defaults.ResponseTimeout
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = defaults.NATS.URL
	}
	if cfg.NATS.RequestSubject == "" {
		cfg.NATS.RequestSubject = defaults.NATS.RequestSubject
	}
	if cfg.NATS.ResponseSubject == "" {
		cfg.NATS.ResponseSubject = defaults.NATS.ResponseSubject
	}
	if cfg.NATS.KVBucket == "" {
		cfg.NATS.KVBucket = defaults.NATS.KVBucket
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - ResponseTimeout > 0
//   - OperationTimeout > 0
//   - RequestSubject and ResponseSubject differ
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if cfg.ResponseTimeout <= 0 {
		return fmt.Errorf("%w: ResponseTimeout must be > 0, got %v", ErrInvalidConfig, cfg.ResponseTimeout)
	}

	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("%w: OperationTimeout must be > 0, got %v", ErrInvalidConfig, cfg.OperationTimeout)
	}

	if cfg.NATS.RequestSubject != "" && cfg.NATS.RequestSubject == cfg.NATS.ResponseSubject {
		return fmt.Errorf("%w: RequestSubject and ResponseSubject must differ, both are %q",
			ErrInvalidConfig, cfg.NATS.RequestSubject)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in NewManager() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.ResponseTimeout < time.Second {
		logger.Warn(
			"ResponseTimeout is very short, servers may not answer before expiry",
			"responseTimeout", cfg.ResponseTimeout,
			"recommended", "10s",
		)
	}

	if cfg.ResponseTimeout > 5*time.Minute {
		logger.Warn(
			"ResponseTimeout is very long, unanswered requests will linger as pending",
			"responseTimeout", cfg.ResponseTimeout,
			"recommended", "10s",
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Returns:
//   - Config: Configuration with short timeouts for tests
//
// Example:
//
//	cfg := siri.TestConfig()
//	mgr, err := siri.NewManager(&cfg, activestore.NewMemory(), correlation.Default{})
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.ResponseTimeout = 200 * time.Millisecond
	cfg.OperationTimeout = time.Second

	return cfg
}

// ParseConfig decodes a YAML document into a Config, applies defaults and validates it.
//
// Parameters:
//   - data: YAML document
//
// Returns:
//   - Config: Parsed configuration
//   - error: Decode or validation error
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads a YAML configuration file.
//
// A missing file is reported as an error; use DefaultConfig when no file is expected.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Config: Parsed configuration
//   - error: Read, decode or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file %s not found: %w", path, err)
		}

		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	return ParseConfig(data)
}
