// Package prometheus exposes the platform's operational telemetry: strategy
// attempts and latencies, retry counts, cache effectiveness, waste-code
// frequencies, and the HTTP surface.  All metrics live in a private registry
// so tests never collide on the global default.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the platform metric set.  The zero value is unusable; build it
// with New.
type Metrics struct {
	registry *prometheus.Registry

	StrategyAttempts *prometheus.CounterVec
	StrategyDuration *prometheus.HistogramVec
	StrategyRetries  *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec
	Finalizations    *prometheus.CounterVec

	ClassificationCodes    *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New builds and registers the metric set under namespace.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "hazwaste"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: reg,
		StrategyAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "extraction_strategy_attempts_total",
			Help: "Extraction strategy invocations by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		StrategyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "extraction_strategy_duration_seconds",
			Help:    "Extraction strategy wall time.",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30},
		}, []string{"strategy"}),
		StrategyRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "extraction_strategy_retries_total",
			Help: "Transient-failure retries per strategy.",
		}, []string{"strategy"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "result_cache_lookups_total",
			Help: "Result cache lookups by outcome.",
		}, []string{"outcome"}),
		Finalizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "extraction_finalizations_total",
			Help: "Finalized extraction outcomes by source and emergency flag.",
		}, []string{"source", "emergency"}),
		ClassificationCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "classification_codes_total",
			Help: "Waste codes assigned across all classifications.",
		}, []string{"code"}),
		ClassificationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "classification_duration_seconds",
			Help:    "End-to-end classification wall time.",
			Buckets: []float64{.05, .1, .5, 1, 5, 15, 30, 60},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		m.StrategyAttempts, m.StrategyDuration, m.StrategyRetries,
		m.CacheLookups, m.Finalizations,
		m.ClassificationCodes, m.ClassificationDuration,
		m.HTTPRequests, m.HTTPDuration,
	)
	return m
}

// Handler serves the exposition endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ---------------------------------------------------------------------------
// Orchestrator telemetry sink
// ---------------------------------------------------------------------------

// ObserveStrategy records one strategy attempt.
func (m *Metrics) ObserveStrategy(name string, _ float64, elapsed time.Duration, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	m.StrategyAttempts.WithLabelValues(name, outcome).Inc()
	m.StrategyDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// ObserveRetry records one transient-failure retry.
func (m *Metrics) ObserveRetry(name string) {
	m.StrategyRetries.WithLabelValues(name).Inc()
}

// ObserveCache records one result-cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookups.WithLabelValues(outcome).Inc()
}

// ObserveFinalized records one finalized extraction outcome.
func (m *Metrics) ObserveFinalized(source string, emergency bool) {
	m.Finalizations.WithLabelValues(source, strconv.FormatBool(emergency)).Inc()
}

// ObserveClassification records the codes and duration of one completed
// classification.
func (m *Metrics) ObserveClassification(codes []string, elapsed time.Duration) {
	for _, code := range codes {
		m.ClassificationCodes.WithLabelValues(code).Inc()
	}
	m.ClassificationDuration.Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
