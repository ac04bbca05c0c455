package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "HAZWASTE"

// knownKeys enumerates every configuration key.  Viper only consults the
// environment for keys it has seen, so each key is registered with an empty
// default; real defaults are applied on the struct by ApplyDefaults.
var knownKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.max_body_size", "server.shutdown_timeout",
	"log.level", "log.format", "log.output_paths",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout", "redis.key_prefix",
	"postgres.host", "postgres.port", "postgres.user", "postgres.password",
	"postgres.db_name", "postgres.ssl_mode", "postgres.max_conns", "postgres.min_conns",
	"postgres.conn_max_lifetime",
	"kafka.brokers", "kafka.topic", "kafka.max_retries", "kafka.batch_timeout",
	"kafka.write_timeout",
	"provider.kind", "provider.base_url", "provider.api_key", "provider.model",
	"provider.temperature", "provider.max_output_tokens", "provider.request_timeout",
	"extraction.deterministic_accept", "extraction.min_acceptance", "extraction.merge_floor",
	"extraction.strategy_timeout", "extraction.max_retries", "extraction.retry_backoff",
	"cache.capacity", "cache.ttl", "cache.backend",
	"metrics.enabled", "metrics.namespace",
}

// newViper builds a pre-configured Viper instance with the platform's
// standard settings: YAML file type, HAZWASTE_ env prefix, automatic env
// binding, and a key replacer that maps "." → "_" so that nested keys like
// "provider.base_url" resolve to "HAZWASTE_PROVIDER_BASE_URL".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range knownKeys {
		v.SetDefault(k, nil)
	}
	return v
}

// Load reads the YAML file at configPath, merges HAZWASTE_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from HAZWASTE_* environment variables
// with no config file, the preferred strategy for containerised deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified.  Intended for hot-reloading
// non-critical settings such as log level and confidence thresholds; callers
// are responsible for applying only the safe subset at runtime.  Changed
// files that fail to parse or validate are skipped silently.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad wraps Load and panics on error; for use in main() where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
