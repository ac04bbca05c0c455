// Package orchestrator drives the extraction strategies under the
// confidence policy: a cheap deterministic first pass, concurrent fallback
// strategies when it disappoints, a field-level hybrid merge, and a
// guaranteed emergency path.  The state machine always reaches Finalized and
// Extract never returns an error; every failure on the way degrades
// confidence or adds a warning instead.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/extraction"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// States
// ---------------------------------------------------------------------------

// State is one node of the extraction state machine.
type State string

const (
	StateIdle                   State = "Idle"
	StateDeterministicAttempted State = "DeterministicAttempted"
	StateHighConfidenceAccepted State = "HighConfidenceAccepted"
	StateProbabilisticAttempted State = "ProbabilisticAttempted"
	StateMerged                 State = "Merged"
	StateEmergencyFallback      State = "EmergencyFallback"
	StateFinalized              State = "Finalized"
)

// SourceHybridMerge marks an outcome assembled field by field from several
// attempts rather than taken from a single strategy.
const SourceHybridMerge = "hybrid-merge"

// ---------------------------------------------------------------------------
// Policy
// ---------------------------------------------------------------------------

// Policy holds the confidence thresholds and resource limits the state
// machine runs under.
type Policy struct {
	// DeterministicAccept short-circuits everything else when the first
	// pass meets it.
	DeterministicAccept float64
	// MinAcceptance accepts the best single attempt after the fan-out.
	MinAcceptance float64
	// MergeFloor is the last line before the emergency fallback.
	MergeFloor float64

	StrategyTimeout time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		DeterministicAccept: 0.8,
		MinAcceptance:       0.7,
		MergeFloor:          0.5,
		StrategyTimeout:     30 * time.Second,
		MaxRetries:          2,
		RetryBackoff:        time.Second,
	}
}

// ---------------------------------------------------------------------------
// Observability hooks
// ---------------------------------------------------------------------------

// Metrics receives orchestrator telemetry.  A nil Metrics is replaced by a
// noop implementation.
type Metrics interface {
	ObserveStrategy(name string, confidence float64, elapsed time.Duration, failed bool)
	ObserveRetry(name string)
	ObserveCache(hit bool)
	ObserveFinalized(source string, emergency bool)
}

type nopMetrics struct{}

func (nopMetrics) ObserveStrategy(string, float64, time.Duration, bool) {}
func (nopMetrics) ObserveRetry(string)                                 {}
func (nopMetrics) ObserveCache(bool)                                   {}
func (nopMetrics) ObserveFinalized(string, bool)                       {}

// ---------------------------------------------------------------------------
// Outcome
// ---------------------------------------------------------------------------

// Outcome is the orchestrator's terminal result.  Fields is always non-nil;
// when Emergency is set every required field is populated, if only with
// placeholder values.
type Outcome struct {
	Fields     *extraction.PartialResult `json:"fields"`
	Confidence float64                   `json:"confidence"`
	Source     string                    `json:"source"`
	Emergency  bool                      `json:"emergency"`
	Warnings   []string                  `json:"warnings,omitempty"`
	Trace      []State                   `json:"trace"`
	CacheHit   bool                      `json:"cache_hit"`
}

// cachedOutcome is the stored form; the trace is not cached because it
// describes one run, not the result.
type cachedOutcome struct {
	Fields     *extraction.PartialResult `json:"fields"`
	Confidence float64                   `json:"confidence"`
	Source     string                    `json:"source"`
	Emergency  bool                      `json:"emergency"`
	Warnings   []string                  `json:"warnings,omitempty"`
}

// ---------------------------------------------------------------------------
// Orchestrator
// ---------------------------------------------------------------------------

// Orchestrator owns the strategy set and the result cache reference.  All
// state lives per call; the struct itself is safe for concurrent use.
type Orchestrator struct {
	deterministic extraction.Strategy
	secondary     []extraction.Strategy
	emergency     extraction.Strategy
	policy        Policy
	store         cache.Cache
	metrics       Metrics
	logger        logging.Logger
	sleep         func(ctx context.Context, d time.Duration) error
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithCache attaches a result cache.  Without one every call recomputes.
func WithCache(c cache.Cache) Option {
	return func(o *Orchestrator) { o.store = c }
}

// WithMetrics attaches a telemetry sink.
func WithMetrics(m Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithSecondary registers the fallback strategies run when the
// deterministic pass falls short, in the given order.
func WithSecondary(strategies ...extraction.Strategy) Option {
	return func(o *Orchestrator) {
		for _, s := range strategies {
			if s != nil {
				o.secondary = append(o.secondary, extraction.Protect(s))
			}
		}
	}
}

// withSleep replaces the backoff sleeper, for tests.
func withSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) { o.sleep = fn }
}

// New builds an Orchestrator.  The deterministic and emergency strategies
// are mandatory; both are wrapped against panics.
func New(deterministic, emergency extraction.Strategy, policy Policy, logger logging.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	o := &Orchestrator{
		deterministic: extraction.Protect(deterministic),
		emergency:     extraction.Protect(emergency),
		policy:        policy,
		metrics:       nopMetrics{},
		logger:        logger.Named("orchestrator"),
		sleep:         sleepCtx,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Extract runs the state machine over one document.  It always returns a
// non-nil Outcome whose trace ends in Finalized.
func (o *Orchestrator) Extract(ctx context.Context, in extraction.Input) *Outcome {
	out := &Outcome{Trace: []State{StateIdle}}
	key := cache.Fingerprint(in.Text, in.Hints)

	if o.store != nil {
		var cached cachedOutcome
		err := o.store.Get(ctx, key, &cached)
		if err == nil {
			o.metrics.ObserveCache(true)
			out.Fields = cached.Fields
			out.Confidence = cached.Confidence
			out.Source = cached.Source
			out.Emergency = cached.Emergency
			out.Warnings = cached.Warnings
			out.CacheHit = true
			out.Trace = append(out.Trace, StateFinalized)
			return out
		}
		if !errors.IsCode(err, errors.ErrCodeNotFound) {
			out.Warnings = append(out.Warnings, "result cache unavailable: "+err.Error())
		}
		o.metrics.ObserveCache(false)
	}

	// First pass: the deterministic strategy, no retries.  Its failures
	// are structural, a second run would read the same text.
	det := o.runWithTimeout(ctx, o.deterministic, in)
	o.observe(det)
	out.Trace = append(out.Trace, StateDeterministicAttempted)
	o.warnFrom(out, det)

	if det.Confidence >= o.policy.DeterministicAccept {
		out.Trace = append(out.Trace, StateHighConfidenceAccepted)
		o.finalize(ctx, out, key, det.Fields, det.Confidence, det.StrategyName, false)
		return out
	}

	// Fan out the remaining strategies; the barrier waits for every one,
	// a single failure never sinks the batch.
	attempts := []*extraction.Attempt{det}
	if len(o.secondary) > 0 {
		results := make([]*extraction.Attempt, len(o.secondary))
		var wg sync.WaitGroup
		for i, s := range o.secondary {
			wg.Add(1)
			go func(i int, s extraction.Strategy) {
				defer wg.Done()
				results[i] = o.runWithRetry(ctx, s, in)
			}(i, s)
		}
		wg.Wait()
		out.Trace = append(out.Trace, StateProbabilisticAttempted)
		for _, att := range results {
			o.observe(att)
			o.warnFrom(out, att)
			attempts = append(attempts, att)
		}
	}

	best := det
	for _, att := range attempts[1:] {
		if att.Confidence > best.Confidence {
			best = att
		}
	}
	if best.Confidence >= o.policy.MinAcceptance {
		o.finalize(ctx, out, key, best.Fields, best.Confidence, best.StrategyName, false)
		return out
	}

	merged := extraction.Merge(attempts)
	mergedConf := merged.Overall()
	if mergedConf >= o.policy.MergeFloor {
		out.Trace = append(out.Trace, StateMerged)
		o.finalize(ctx, out, key, merged, mergedConf, SourceHybridMerge, false)
		return out
	}

	// Emergency fallback: merge whatever evidence exists with the
	// permissive heuristics, which guarantee a value for every required
	// field.
	out.Trace = append(out.Trace, StateEmergencyFallback)
	em := o.emergency.Extract(ctx, in)
	o.observe(em)
	final := extraction.Merge(append(attempts, em))
	out.Warnings = append(out.Warnings,
		"no extraction strategy reached the confidence floor; emergency fallback values in use")
	o.finalize(ctx, out, key, final, final.Overall(), em.StrategyName, true)
	return out
}

// finalize stamps the terminal state, records the outcome in the cache, and
// emits telemetry.  Every path through Extract ends here.
func (o *Orchestrator) finalize(ctx context.Context, out *Outcome, key string,
	fields *extraction.PartialResult, confidence float64, source string, emergency bool) {

	if fields == nil {
		fields = &extraction.PartialResult{}
	}
	out.Fields = fields
	out.Confidence = confidence
	out.Source = source
	out.Emergency = emergency
	out.Trace = append(out.Trace, StateFinalized)

	o.metrics.ObserveFinalized(source, emergency)

	if o.store != nil {
		cached := cachedOutcome{
			Fields:     fields,
			Confidence: confidence,
			Source:     source,
			Emergency:  emergency,
			Warnings:   out.Warnings,
		}
		if err := o.store.Set(ctx, key, cached); err != nil {
			o.logger.Warn("failed to cache extraction outcome", logging.Err(err))
		}
	}

	o.logger.Info("extraction finalized",
		logging.String("source", source),
		logging.Float64("confidence", confidence),
		logging.Bool("emergency", emergency),
		logging.Int("warnings", len(out.Warnings)))
}

// runWithTimeout executes one strategy under the per-strategy budget.  A
// strategy that outlives its context is abandoned; its eventual result is
// discarded and a timeout attempt takes its place.
func (o *Orchestrator) runWithTimeout(ctx context.Context, s extraction.Strategy, in extraction.Input) *extraction.Attempt {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, o.policy.StrategyTimeout)
	defer cancel()

	ch := make(chan *extraction.Attempt, 1)
	go func() { ch <- s.Extract(ctx, in) }()

	select {
	case att := <-ch:
		return att
	case <-ctx.Done():
		return &extraction.Attempt{
			StrategyName: s.Name(),
			Fields:       &extraction.PartialResult{},
			Elapsed:      time.Since(started),
			Err: errors.New(errors.ErrCodeStrategyTimeout,
				fmt.Sprintf("strategy %s exceeded %s budget", s.Name(), o.policy.StrategyTimeout)),
		}
	}
}

// runWithRetry adds the transient-failure retry loop on top of the timeout:
// up to MaxRetries extra runs with exponential backoff, local to this
// strategy and invisible to the others.
func (o *Orchestrator) runWithRetry(ctx context.Context, s extraction.Strategy, in extraction.Input) *extraction.Attempt {
	att := o.runWithTimeout(ctx, s, in)
	backoff := o.policy.RetryBackoff

	for retry := 0; retry < o.policy.MaxRetries; retry++ {
		if att.Err == nil || !errors.IsTransient(att.Err) {
			return att
		}
		o.metrics.ObserveRetry(s.Name())
		o.logger.Warn("retrying strategy after transient failure",
			logging.String("strategy", s.Name()),
			logging.Int("retry", retry+1),
			logging.Err(att.Err))
		if err := o.sleep(ctx, backoff); err != nil {
			return att
		}
		backoff *= 2
		att = o.runWithTimeout(ctx, s, in)
	}
	return att
}

func (o *Orchestrator) observe(att *extraction.Attempt) {
	o.metrics.ObserveStrategy(att.StrategyName, att.Confidence, att.Elapsed, att.Err != nil)
}

// warnFrom surfaces a degraded attempt as a caller-visible warning.
func (o *Orchestrator) warnFrom(out *Outcome, att *extraction.Attempt) {
	if att.Err == nil {
		return
	}
	out.Warnings = append(out.Warnings,
		fmt.Sprintf("strategy %s degraded: %s", att.StrategyName, att.Err.Error()))
}
