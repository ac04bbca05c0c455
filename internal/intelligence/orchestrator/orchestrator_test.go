package orchestrator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HazWaste-Intelligence/internal/domain/waste"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/cache"
	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/internal/intelligence/extraction"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// mockStrategy is a scriptable Strategy with call counting.
type mockStrategy struct {
	name string
	fn   func(call int, in extraction.Input) *extraction.Attempt

	mu    sync.Mutex
	calls int
}

func (m *mockStrategy) Name() string { return m.name }

func (m *mockStrategy) Extract(_ context.Context, in extraction.Input) *extraction.Attempt {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	return m.fn(call, in)
}

func (m *mockStrategy) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func fixedAttempt(name string, conf float64, fields *extraction.PartialResult) *extraction.Attempt {
	if fields == nil {
		fields = &extraction.PartialResult{}
	}
	return &extraction.Attempt{StrategyName: name, Confidence: conf, Fields: fields}
}

func constStrategy(name string, conf float64, fields *extraction.PartialResult) *mockStrategy {
	return &mockStrategy{name: name, fn: func(int, extraction.Input) *extraction.Attempt {
		return fixedAttempt(name, conf, fields)
	}}
}

func noSleep(t *testing.T) (Option, *[]time.Duration) {
	t.Helper()
	var slept []time.Duration
	var mu sync.Mutex
	return withSleep(func(_ context.Context, d time.Duration) error {
		mu.Lock()
		slept = append(slept, d)
		mu.Unlock()
		return nil
	}), &slept
}

func fields(productConf, stateConf, phConf, flashConf, compConf float64) *extraction.PartialResult {
	p := &extraction.PartialResult{}
	mk := func(c float64) *extraction.FieldValue {
		return &extraction.FieldValue{Raw: "x", Confidence: c, Source: "test"}
	}
	if productConf > 0 {
		p.ProductName = mk(productConf)
	}
	if stateConf > 0 {
		p.PhysicalState = mk(stateConf)
	}
	if phConf > 0 {
		p.PH = mk(phConf)
	}
	if flashConf > 0 {
		p.FlashPointC = mk(flashConf)
	}
	if compConf > 0 {
		p.Composition = []waste.ChemicalComponent{{Name: "Acetone", Identifier: "67-64-1"}}
		p.CompositionConfidence = compConf
	}
	return p
}

func TestExtract_DeterministicShortCircuit(t *testing.T) {
	det := constStrategy("det", 0.85, fields(0.9, 0.9, 0.9, 0.9, 0))
	second := constStrategy("probabilistic", 0.99, nil)

	o := New(det, extraction.NewEmergencyStrategy(), DefaultPolicy(), logging.NewNopLogger(),
		WithSecondary(second))

	out := o.Extract(context.Background(), extraction.Input{Text: "doc"})

	assert.Equal(t, 0.85, out.Confidence)
	assert.Equal(t, "det", out.Source)
	assert.False(t, out.Emergency)
	assert.Zero(t, second.callCount(), "high-confidence first pass must skip expensive strategies")
	assert.Equal(t, []State{StateIdle, StateDeterministicAttempted, StateHighConfidenceAccepted, StateFinalized}, out.Trace)
}

func TestExtract_BestSecondaryAccepted(t *testing.T) {
	det := constStrategy("det", 0.3, nil)
	second := constStrategy("probabilistic", 0.75, fields(0.8, 0.8, 0.8, 0.8, 0.8))

	o := New(det, extraction.NewEmergencyStrategy(), DefaultPolicy(), logging.NewNopLogger(),
		WithSecondary(second))

	out := o.Extract(context.Background(), extraction.Input{Text: "doc"})

	assert.Equal(t, "probabilistic", out.Source)
	assert.Equal(t, 0.75, out.Confidence)
	assert.False(t, out.Emergency)
	assert.Contains(t, out.Trace, StateProbabilisticAttempted)
	assert.NotContains(t, out.Trace, StateMerged)
}

func TestExtract_HybridMerge(t *testing.T) {
	// Each attempt is weak on its own but their union crosses the merge
	// floor: composition from one, scalars from the other.
	det := constStrategy("det", 0.3, fields(0, 0, 0, 0, 0.9))
	second := constStrategy("probabilistic", 0.27, fields(0.8, 0, 0.8, 0, 0))

	o := New(det, extraction.NewEmergencyStrategy(), DefaultPolicy(), logging.NewNopLogger(),
		WithSecondary(second))

	out := o.Extract(context.Background(), extraction.Input{Text: "doc"})

	assert.Equal(t, SourceHybridMerge, out.Source)
	assert.False(t, out.Emergency)
	assert.Contains(t, out.Trace, StateMerged)
	assert.GreaterOrEqual(t, out.Confidence, 0.5)
	assert.Less(t, out.Confidence, 0.7)
	require.NotNil(t, out.Fields.ProductName)
	assert.InDelta(t, 0.9, out.Fields.CompositionConfidence, 1e-9)
}

func TestExtract_EmergencyFallback(t *testing.T) {
	det := constStrategy("det", 0.1, nil)
	second := constStrategy("probabilistic", 0.15, nil)

	o := New(det, extraction.NewEmergencyStrategy(), DefaultPolicy(), logging.NewNopLogger(),
		WithSecondary(second))

	out := o.Extract(context.Background(), extraction.Input{Text: "unreadable scan artifacts"})

	assert.True(t, out.Emergency)
	assert.Equal(t, extraction.EmergencyStrategyName, out.Source)
	assert.Contains(t, out.Trace, StateEmergencyFallback)
	assert.Equal(t, StateFinalized, out.Trace[len(out.Trace)-1])

	f := out.Fields
	require.NotNil(t, f.ProductName)
	require.NotNil(t, f.PhysicalState)
	require.NotNil(t, f.PH)
	require.NotNil(t, f.FlashPointC)
	assert.Equal(t, "liquid", f.PhysicalState.Raw)
	assert.Equal(t, extraction.UndeterminedValue, f.PH.Raw)

	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[len(out.Warnings)-1], "emergency fallback")
}

func TestExtract_RetriesTransientFailures(t *testing.T) {
	det := constStrategy("det", 0.2, nil)
	flaky := &mockStrategy{name: "flaky", fn: func(call int, _ extraction.Input) *extraction.Attempt {
		if call <= 2 {
			att := fixedAttempt("flaky", 0, nil)
			att.Err = errors.New(errors.ErrCodeProviderUnavailable, "connection refused")
			return att
		}
		return fixedAttempt("flaky", 0.9, fields(0.9, 0.9, 0.9, 0.9, 0.9))
	}}

	sleepOpt, slept := noSleep(t)
	o := New(det, extraction.NewEmergencyStrategy(), DefaultPolicy(), logging.NewNopLogger(),
		WithSecondary(flaky), sleepOpt)

	out := o.Extract(context.Background(), extraction.Input{Text: "doc"})

	assert.Equal(t, "flaky", out.Source)
	assert.Equal(t, 3, flaky.callCount(), "two retries after the initial run")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept, "exponential backoff from the base")
}

func TestExtract_NonTransientFailureNotRetried(t *testing.T) {
	det := constStrategy("det", 0.2, nil)
	broken := &mockStrategy{name: "broken", fn: func(int, extraction.Input) *extraction.Attempt {
		att := fixedAttempt("broken", 0, nil)
		att.Err = errors.New(errors.ErrCodeMalformedProviderResponse, "not json")
		return att
	}}

	sleepOpt, slept := noSleep(t)
	o := New(det, extraction.NewEmergencyStrategy(), DefaultPolicy(), logging.NewNopLogger(),
		WithSecondary(broken), sleepOpt)

	out := o.Extract(context.Background(), extraction.Input{Text: "doc"})

	assert.Equal(t, 1, broken.callCount())
	assert.Empty(t, *slept)
	assert.True(t, out.Emergency)
}

func TestExtract_StrategyTimeout(t *testing.T) {
	det := constStrategy("det", 0.2, nil)
	hung := &mockStrategy{name: "hung", fn: func(int, extraction.Input) *extraction.Attempt {
		time.Sleep(2 * time.Second)
		return fixedAttempt("hung", 0.95, nil)
	}}

	policy := DefaultPolicy()
	policy.StrategyTimeout = 50 * time.Millisecond
	policy.MaxRetries = 0

	o := New(det, extraction.NewEmergencyStrategy(), policy, logging.NewNopLogger(),
		WithSecondary(hung))

	start := time.Now()
	out := o.Extract(context.Background(), extraction.Input{Text: "doc"})

	assert.Less(t, time.Since(start), time.Second, "barrier must not wait for the hung strategy")
	assert.True(t, out.Emergency, "timed-out strategy contributes nothing")

	found := false
	for _, w := range out.Warnings {
		if strings.Contains(w, "exceeded") {
			found = true
		}
	}
	assert.True(t, found, "timeout must surface as a warning")
}

func TestExtract_CacheRoundTrip(t *testing.T) {
	det := constStrategy("det", 0.85, fields(0.9, 0.9, 0.9, 0.9, 0))
	store := cache.NewMemoryCache(8, time.Minute)

	o := New(det, extraction.NewEmergencyStrategy(), DefaultPolicy(), logging.NewNopLogger(),
		WithCache(store))

	first := o.Extract(context.Background(), extraction.Input{Text: "same doc"})
	second := o.Extract(context.Background(), extraction.Input{Text: "same doc"})

	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 1, det.callCount(), "second call is served from the cache")
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Source, second.Source)

	third := o.Extract(context.Background(), extraction.Input{Text: "different doc"})
	assert.False(t, third.CacheHit)
	assert.Equal(t, 2, det.callCount())
}
