package hitproxy

import (
	"fmt"
	"time"

	"github.com/Tap30/hitproxy-go/adapters"
	"github.com/caarlos0/env/v11"
)

// EnvConfig holds proxy and sink settings read from HITPROXY_* environment
// variables. Adapters cannot be expressed in the environment and are wired
// by the caller.
type EnvConfig struct {
	Mode            string   `env:"HITPROXY_MODE" envDefault:"sdk_and_proxy"`
	AllowedHitTypes []string `env:"HITPROXY_ALLOWED_HIT_TYPES" envSeparator:","`
	KeyPrefix       string   `env:"HITPROXY_KEY_PREFIX" envDefault:""`
	HitFieldPolicy  string   `env:"HITPROXY_HIT_FIELD_POLICY" envDefault:"by_type"`
	TrackerFields   []string `env:"HITPROXY_TRACKER_FIELDS" envSeparator:","`
	LogLevel        string   `env:"HITPROXY_LOG_LEVEL" envDefault:"WARN"`

	CollectEndpoint string `env:"HITPROXY_COLLECT_ENDPOINT" envDefault:"https://www.google-analytics.com/collect"`

	SinkEndpoint      string        `env:"HITPROXY_SINK_ENDPOINT"`
	SinkAPIKey        string        `env:"HITPROXY_SINK_API_KEY"`
	SinkFlushInterval time.Duration `env:"HITPROXY_SINK_FLUSH_INTERVAL" envDefault:"5s"`
	SinkMaxBatchSize  int           `env:"HITPROXY_SINK_MAX_BATCH_SIZE" envDefault:"10"`
	SinkMaxRetries    int           `env:"HITPROXY_SINK_MAX_RETRIES" envDefault:"3"`
	SinkStoragePath   string        `env:"HITPROXY_SINK_STORAGE_PATH"`
	SinkStorageMax    int           `env:"HITPROXY_SINK_STORAGE_MAX_EVENTS"`
}

// ParseEnvConfig reads EnvConfig from the process environment.
func ParseEnvConfig() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hitproxy config: %w", err)
	}
	return &cfg, nil
}

// ApplyTo copies the routing and mapping settings onto cfg.
func (c *EnvConfig) ApplyTo(cfg *Config) error {
	mode, err := ParseMode(c.Mode)
	if err != nil {
		return err
	}
	policy, err := ParseHitFieldPolicy(c.HitFieldPolicy)
	if err != nil {
		return err
	}

	cfg.Mode = mode
	cfg.HitFieldPolicy = policy
	cfg.KeyPrefix = c.KeyPrefix
	if len(c.AllowedHitTypes) > 0 {
		cfg.AllowedHitTypes = append([]string(nil), c.AllowedHitTypes...)
	}
	if len(c.TrackerFields) > 0 {
		cfg.Fields.Tracker = append([]string(nil), c.TrackerFields...)
	}
	if cfg.LoggerAdapter == nil {
		logger, err := c.Logger()
		if err != nil {
			return err
		}
		cfg.LoggerAdapter = logger
	}
	return nil
}

// Logger returns a print logger at the configured level.
func (c *EnvConfig) Logger() (LoggerAdapter, error) {
	level := adapters.LogLevel(c.LogLevel)
	if !level.Valid() {
		return nil, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return adapters.NewPrintLoggerAdapter(level), nil
}

// BatchSinkConfig returns the sink settings. A storage path selects file
// persistence.
func (c *EnvConfig) BatchSinkConfig() BatchSinkConfig {
	cfg := BatchSinkConfig{
		APIKey:        c.SinkAPIKey,
		Endpoint:      c.SinkEndpoint,
		FlushInterval: c.SinkFlushInterval,
		MaxBatchSize:  c.SinkMaxBatchSize,
		MaxRetries:    c.SinkMaxRetries,
	}
	if c.SinkStoragePath != "" {
		storage := adapters.NewFileStorageAdapter(c.SinkStoragePath)
		storage.SetMaxEvents(c.SinkStorageMax)
		cfg.StorageAdapter = storage
	}
	return cfg
}
