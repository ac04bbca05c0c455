// Package config defines all configuration structures for the
// HazWaste-Intelligence platform.  No I/O or parsing logic lives here, only
// plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// RedisConfig holds Redis connection parameters for the distributed result
// cache.  The redis tier is optional; when Addr is empty the in-process FIFO
// cache is used alone.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// PostgresConfig holds connection parameters for the optional feedback store.
type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// KafkaConfig holds parameters for the optional classification-event producer.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	MaxRetries   int           `mapstructure:"max_retries"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ProviderConfig selects and parameterises the text-completion provider used
// by the probabilistic extraction strategy.  Kind is a closed set: "http"
// enables the OpenAI-compatible HTTP client; "none" disables the strategy.
type ProviderConfig struct {
	Kind            string        `mapstructure:"kind"` // "http" | "none"
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// ExtractionConfig holds the orchestrator's confidence policy and concurrency
// limits.
type ExtractionConfig struct {
	// DeterministicAccept short-circuits all remaining strategies when the
	// first-pass deterministic confidence meets it.
	DeterministicAccept float64 `mapstructure:"deterministic_accept"`
	// MinAcceptance is the floor for accepting a single strategy's whole
	// result after the fan-out round.
	MinAcceptance float64 `mapstructure:"min_acceptance"`
	// MergeFloor is the floor below which a hybrid-merged result triggers
	// the emergency fallback.
	MergeFloor float64 `mapstructure:"merge_floor"`

	StrategyTimeout time.Duration `mapstructure:"strategy_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
}

// CacheConfig holds the result-cache policy.
type CacheConfig struct {
	Capacity int           `mapstructure:"capacity"`
	TTL      time.Duration `mapstructure:"ttl"`
	// Backend selects "memory" (bounded FIFO, default) or "redis".
	Backend string `mapstructure:"backend"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Config is the root configuration aggregate.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// Validate checks cross-field consistency.  It is called by the loader after
// defaults are applied, so zero values that have defaults never reach it.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release, or test", c.Server.Mode)
	}
	if c.Extraction.DeterministicAccept < c.Extraction.MinAcceptance {
		return fmt.Errorf("extraction.deterministic_accept %.2f must be >= extraction.min_acceptance %.2f",
			c.Extraction.DeterministicAccept, c.Extraction.MinAcceptance)
	}
	if c.Extraction.MinAcceptance < c.Extraction.MergeFloor {
		return fmt.Errorf("extraction.min_acceptance %.2f must be >= extraction.merge_floor %.2f",
			c.Extraction.MinAcceptance, c.Extraction.MergeFloor)
	}
	if c.Extraction.MaxRetries < 0 {
		return fmt.Errorf("extraction.max_retries must not be negative")
	}
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be positive")
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("cache.backend redis requires redis.addr")
		}
	default:
		return fmt.Errorf("cache.backend %q must be memory or redis", c.Cache.Backend)
	}
	switch c.Provider.Kind {
	case "none":
	case "http":
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("provider.kind http requires provider.base_url")
		}
	default:
		return fmt.Errorf("provider.kind %q must be http or none", c.Provider.Kind)
	}
	return nil
}
