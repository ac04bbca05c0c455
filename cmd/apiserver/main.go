package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/HazWaste-Intelligence/internal/application/hazclass"
	"github.com/turtacn/HazWaste-Intelligence/internal/config"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/turtacn/HazWaste-Intelligence/internal/interfaces/http"
	"github.com/turtacn/HazWaste-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/classifier"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/extraction"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/orchestrator"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/provider"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/registry"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise logger: %w", err)
	}
	logging.SetDefault(log)

	// Hot-reload the log level when the config file changes. Other settings
	// require a restart.
	if configPath != "" {
		if setter, ok := log.(logging.LevelSetter); ok {
			level := cfg.Log.Level
			config.Watch(configPath, func(next *config.Config) {
				if next.Log.Level == level {
					return
				}
				setter.SetLevel(next.Log.Level)
				level = next.Log.Level
				log.Info("log level updated", logging.String("level", level))
			})
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *prometheus.Metrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.New(cfg.Metrics.Namespace)
	}

	// Result cache tier.
	probes := map[string]handlers.Pinger{}
	var store cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		defer client.Close()
		rc := cache.NewRedisCache(client, cfg.Cache.TTL, log, cache.WithPrefix(cfg.Redis.KeyPrefix))
		store = rc
		probes["redis"] = rc
	default:
		store = cache.NewMemoryCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	}

	// Extraction pipeline.
	orchOpts := []orchestrator.Option{orchestrator.WithCache(store)}
	if metrics != nil {
		orchOpts = append(orchOpts, orchestrator.WithMetrics(metrics))
	}
	if cfg.Provider.Kind == "http" {
		p := provider.NewHTTPProvider(provider.HTTPConfig{
			BaseURL:        cfg.Provider.BaseURL,
			APIKey:         cfg.Provider.APIKey,
			Model:          cfg.Provider.Model,
			RequestTimeout: cfg.Provider.RequestTimeout,
		})
		orchOpts = append(orchOpts, orchestrator.WithSecondary(
			extraction.NewProbabilisticStrategy(p, cfg.Provider.Temperature, cfg.Provider.MaxOutputTokens, log),
		))
	}
	orch := orchestrator.New(
		extraction.NewDeterministicStrategy(log),
		extraction.NewEmergencyStrategy(),
		policyFromConfig(cfg.Extraction),
		log,
		orchOpts...,
	)

	cls := classifier.NewClassifier(registry.Build(log), log)

	// Optional side channels.
	svcOpts := []hazclass.Option{}
	if metrics != nil {
		svcOpts = append(svcOpts, hazclass.WithMetrics(metrics))
	}
	if cfg.Postgres.Host != "" {
		pool, err := postgres.NewPool(ctx, cfg.Postgres, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		fs := postgres.NewFeedbackStore(pool, log)
		if err := fs.EnsureSchema(ctx); err != nil {
			return err
		}
		svcOpts = append(svcOpts, hazclass.WithFeedbackStore(fs))
		probes["postgres"] = pool
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			return err
		}
		defer producer.Close()
		svcOpts = append(svcOpts, hazclass.WithEventPublisher(producer))
	}

	svc := hazclass.NewService(orch, cls, log, svcOpts...)

	router := httpiface.NewRouter(httpiface.RouterConfig{
		Service:     svc,
		Logger:      log,
		Metrics:     metrics,
		Version:     version,
		Mode:        cfg.Server.Mode,
		MaxBodySize: cfg.Server.MaxBodySize,
		Probes:      probes,
	})
	server := httpiface.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := server.Shutdown(context.Background()); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func policyFromConfig(c config.ExtractionConfig) orchestrator.Policy {
	p := orchestrator.DefaultPolicy()
	if c.DeterministicAccept > 0 {
		p.DeterministicAccept = c.DeterministicAccept
	}
	if c.MinAcceptance > 0 {
		p.MinAcceptance = c.MinAcceptance
	}
	if c.MergeFloor > 0 {
		p.MergeFloor = c.MergeFloor
	}
	if c.StrategyTimeout > 0 {
		p.StrategyTimeout = c.StrategyTimeout
	}
	p.MaxRetries = c.MaxRetries
	if c.RetryBackoff > 0 {
		p.RetryBackoff = c.RetryBackoff
	}
	return p
}
