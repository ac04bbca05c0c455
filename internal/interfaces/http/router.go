// Package http assembles the gin router and the HTTP server for the
// classification API.
package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/HazWaste-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/HazWaste-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig collects everything the router composition needs.
type RouterConfig struct {
	Service     handlers.ClassificationService
	Logger      logging.Logger
	Metrics     *prometheus.Metrics // nil disables /metrics
	Version     string
	Mode        string // gin mode: "debug" | "release" | "test"
	MaxBodySize int64
	Probes      map[string]handlers.Pinger
}

// NewRouter builds the full route table.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogging(log, middleware.DefaultLoggingConfig()),
	)
	if cfg.Metrics != nil {
		r.Use(httpMetrics(cfg.Metrics))
	}

	health := handlers.NewHealthHandler(cfg.Version)
	for name, p := range cfg.Probes {
		health.AddProbe(name, p)
	}
	r.GET("/healthz", health.Health)

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	classification := handlers.NewClassificationHandler(cfg.Service, cfg.MaxBodySize)
	feedback := handlers.NewFeedbackHandler(cfg.Service)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/classifications", classification.Classify)
		v1.POST("/feedback", feedback.Record)
		v1.GET("/feedback", feedback.List)
	}

	return r
}

// httpMetrics records request counts and latencies per route template.
func httpMetrics(m *prometheus.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
