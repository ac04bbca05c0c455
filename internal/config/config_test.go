package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaulted() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := defaulted()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 0.8, cfg.Extraction.DeterministicAccept)
	assert.Equal(t, 0.7, cfg.Extraction.MinAcceptance)
	assert.Equal(t, 0.5, cfg.Extraction.MergeFloor)
	assert.Equal(t, 30*time.Second, cfg.Extraction.StrategyTimeout)
	assert.Equal(t, 2, cfg.Extraction.MaxRetries)
	assert.Equal(t, time.Second, cfg.Extraction.RetryBackoff)
	assert.Equal(t, 512, cfg.Cache.Capacity)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, "none", cfg.Provider.Kind)
	assert.Equal(t, "hazwaste:", cfg.Redis.KeyPrefix)
	assert.Equal(t, "hazwaste.classification.completed", cfg.Kafka.Topic)
}

func TestApplyDefaults_DoesNotOverrideSetValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9000
	cfg.Extraction.MinAcceptance = 0.65
	ApplyDefaults(cfg)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 0.65, cfg.Extraction.MinAcceptance)
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, defaulted().Validate())
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"bad mode", func(c *Config) { c.Server.Mode = "production" }},
		{"inverted thresholds", func(c *Config) { c.Extraction.DeterministicAccept = 0.6 }},
		{"floor above acceptance", func(c *Config) { c.Extraction.MergeFloor = 0.9 }},
		{"zero capacity", func(c *Config) { c.Cache.Capacity = -3 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis backend without addr", func(c *Config) { c.Cache.Backend = "redis" }},
		{"http provider without url", func(c *Config) { c.Provider.Kind = "http" }},
		{"unknown provider", func(c *Config) { c.Provider.Kind = "grpc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaulted()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
  mode: debug
provider:
  kind: http
  base_url: http://localhost:11434/v1
cache:
  capacity: 64
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("HAZWASTE_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "http", cfg.Provider.Kind)
	assert.Equal(t, 64, cfg.Cache.Capacity)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields still receive defaults.
	assert.Equal(t, 30*time.Second, cfg.Extraction.StrategyTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HAZWASTE_SERVER_PORT", "7070")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestWatch_DeliversChangedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600))

	changes := make(chan *Config, 4)
	Watch(path, func(c *Config) {
		select {
		case changes <- c:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	select {
	case cfg := <-changes:
		assert.Equal(t, "debug", cfg.Log.Level)
		// Defaults still apply to the reloaded config.
		assert.Equal(t, 8080, cfg.Server.Port)
	case <-time.After(10 * time.Second):
		t.Fatal("config change was not observed")
	}
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
