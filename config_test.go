package siri

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/skywave/onebusaway-siri/internal/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, 10*time.Second, cfg.ResponseTimeout)
	require.Equal(t, 5*time.Second, cfg.OperationTimeout)
	require.Equal(t, "siri.subscription.request", cfg.NATS.RequestSubject)
	require.Equal(t, "siri.subscription.response", cfg.NATS.ResponseSubject)
	require.Equal(t, "siri-active-subscriptions", cfg.NATS.KVBucket)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{
			ResponseTimeout:  30 * time.Second,
			OperationTimeout: 2 * time.Second,
			NATS: NATSConfig{
				URL:             "nats://broker:4222",
				RequestSubject:  "req",
				ResponseSubject: "resp",
				KVBucket:        "active",
			},
		}
		SetDefaults(&cfg)

		require.Equal(t, 30*time.Second, cfg.ResponseTimeout)
		require.Equal(t, 2*time.Second, cfg.OperationTimeout)
		require.Equal(t, "nats://broker:4222", cfg.NATS.URL)
		require.Equal(t, "req", cfg.NATS.RequestSubject)
		require.Equal(t, "resp", cfg.NATS.ResponseSubject)
		require.Equal(t, "active", cfg.NATS.KVBucket)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "zero response timeout",
			mutate:  func(cfg *Config) { cfg.ResponseTimeout = 0 },
			wantErr: "ResponseTimeout must be > 0",
		},
		{
			name:    "negative operation timeout",
			mutate:  func(cfg *Config) { cfg.OperationTimeout = -time.Second },
			wantErr: "OperationTimeout must be > 0",
		},
		{
			name: "request and response subjects collide",
			mutate: func(cfg *Config) {
				cfg.NATS.RequestSubject = "siri"
				cfg.NATS.ResponseSubject = "siri"
			},
			wantErr: "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_ValidateWithWarnings(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		warnings int
	}{
		{name: "recommended", timeout: 10 * time.Second, warnings: 0},
		{name: "very short", timeout: 100 * time.Millisecond, warnings: 1},
		{name: "very long", timeout: 10 * time.Minute, warnings: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			cfg := DefaultConfig()
			cfg.ResponseTimeout = tt.timeout

			cfg.ValidateWithWarnings(logging.NewZap(zap.New(core)))

			require.Equal(t, tt.warnings, logs.Len())
		})
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.NoError(t, cfg.Validate())
	require.Less(t, cfg.ResponseTimeout, DefaultConfig().ResponseTimeout)
}

func TestConfig_YAMLUnmarshal(t *testing.T) {
	yamlConfig := `
responseTimeout: 15s
operationTimeout: 3s
nats:
  url: nats://example:4222
  requestSubject: siri.req
  responseSubject: siri.resp
  kvBucket: siri-kv
`

	var cfg Config
	err := yaml.Unmarshal([]byte(yamlConfig), &cfg)
	require.NoError(t, err)

	require.Equal(t, 15*time.Second, cfg.ResponseTimeout)
	require.Equal(t, 3*time.Second, cfg.OperationTimeout)
	require.Equal(t, "nats://example:4222", cfg.NATS.URL)
	require.Equal(t, "siri.req", cfg.NATS.RequestSubject)
	require.Equal(t, "siri.resp", cfg.NATS.ResponseSubject)
	require.Equal(t, "siri-kv", cfg.NATS.KVBucket)
}

func TestParseConfig(t *testing.T) {
	t.Run("partial document gets defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("responseTimeout: 20s\n"))
		require.NoError(t, err)

		require.Equal(t, 20*time.Second, cfg.ResponseTimeout)
		require.Equal(t, DefaultConfig().OperationTimeout, cfg.OperationTimeout)
		require.Equal(t, DefaultConfig().NATS, cfg.NATS)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := ParseConfig([]byte("responseTimeout: [not a duration"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := ParseConfig([]byte("responseTimeout: -1s\n"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "siri.yaml")
		require.NoError(t, os.WriteFile(path, []byte("responseTimeout: 45s\n"), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, 45*time.Second, cfg.ResponseTimeout)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
