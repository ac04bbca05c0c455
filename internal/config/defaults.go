package config

import "time"

// ApplyDefaults fills every unset field with its production default.  The
// loader calls this between unmarshalling and validation so a minimal config
// file (or a bare environment) still yields a runnable configuration.
func ApplyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.MaxBodySize == 0 {
		c.Server.MaxBodySize = 4 << 20 // 4 MiB of rendered SDS text is generous
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "hazwaste:"
	}

	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
	if c.Postgres.MaxConns == 0 {
		c.Postgres.MaxConns = 10
	}
	if c.Postgres.MinConns == 0 {
		c.Postgres.MinConns = 2
	}
	if c.Postgres.ConnMaxLifetime == 0 {
		c.Postgres.ConnMaxLifetime = time.Hour
	}

	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "hazwaste.classification.completed"
	}
	if c.Kafka.MaxRetries == 0 {
		c.Kafka.MaxRetries = 3
	}
	if c.Kafka.BatchTimeout == 0 {
		c.Kafka.BatchTimeout = 100 * time.Millisecond
	}
	if c.Kafka.WriteTimeout == 0 {
		c.Kafka.WriteTimeout = 10 * time.Second
	}

	if c.Provider.Kind == "" {
		c.Provider.Kind = "none"
	}
	if c.Provider.Model == "" {
		c.Provider.Model = "gpt-4o-mini"
	}
	if c.Provider.Temperature == 0 {
		c.Provider.Temperature = 0.1
	}
	if c.Provider.MaxOutputTokens == 0 {
		c.Provider.MaxOutputTokens = 2048
	}
	if c.Provider.RequestTimeout == 0 {
		c.Provider.RequestTimeout = 25 * time.Second
	}

	if c.Extraction.DeterministicAccept == 0 {
		c.Extraction.DeterministicAccept = 0.8
	}
	if c.Extraction.MinAcceptance == 0 {
		c.Extraction.MinAcceptance = 0.7
	}
	if c.Extraction.MergeFloor == 0 {
		c.Extraction.MergeFloor = 0.5
	}
	if c.Extraction.StrategyTimeout == 0 {
		c.Extraction.StrategyTimeout = 30 * time.Second
	}
	if c.Extraction.MaxRetries == 0 {
		c.Extraction.MaxRetries = 2
	}
	if c.Extraction.RetryBackoff == 0 {
		c.Extraction.RetryBackoff = time.Second
	}

	if c.Cache.Capacity == 0 {
		c.Cache.Capacity = 512
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 30 * time.Minute
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "hazwaste"
	}
}
