package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(t *testing.T) (Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggerFromCore(core), logs
}

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 7}, Int("n", 7))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
	assert.Equal(t, Field{Key: "error", Value: "boom"}, Err(errors.New("boom")))
}

func TestZapLogger_EmitsStructuredFields(t *testing.T) {
	log, logs := newObservedLogger(t)

	log.Info("extraction finished",
		String("strategy", "deterministic"),
		Float64("confidence", 0.85),
		Int("components", 3),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "extraction finished", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "deterministic", fields["strategy"])
	assert.Equal(t, 0.85, fields["confidence"])
	assert.Equal(t, int64(3), fields["components"])
}

func TestWith_ChildCarriesFields(t *testing.T) {
	log, logs := newObservedLogger(t)

	child := log.With(String("request_id", "abc123"))
	child.Warn("strategy timed out")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc123", logs.All()[0].ContextMap()["request_id"])
}

func TestNamed_AppendsLoggerName(t *testing.T) {
	log, logs := newObservedLogger(t)

	log.Named("orchestrator").Info("finalized")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "orchestrator", logs.All()[0].LoggerName)
}

func TestNewLogger_DefaultsAreApplied(t *testing.T) {
	log, err := NewLogger(Config{})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestSetLevel_ChangesAtRuntime(t *testing.T) {
	log, err := NewLogger(Config{Level: "info"})
	require.NoError(t, err)

	zl, ok := log.(*zapLogger)
	require.True(t, ok)
	assert.False(t, zl.z.Core().Enabled(zapcore.DebugLevel))

	setter, ok := log.(LevelSetter)
	require.True(t, ok)
	setter.SetLevel("debug")
	assert.True(t, zl.z.Core().Enabled(zapcore.DebugLevel))

	// Children share the level.
	child := log.Named("reload").With(String("k", "v")).(*zapLogger)
	assert.True(t, child.z.Core().Enabled(zapcore.DebugLevel))

	setter.SetLevel("error")
	assert.False(t, child.z.Core().Enabled(zapcore.InfoLevel))
}

func TestNopLogger_IsSilentAndChainable(t *testing.T) {
	log := NewNopLogger()
	assert.NotPanics(t, func() {
		log.Debug("a")
		log.With(String("k", "v")).Named("x").Info("b")
	})
}

func TestDefault_RoundTrip(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	log, logs := newObservedLogger(t)
	SetDefault(log)
	Default().Info("via default")

	assert.Equal(t, 1, logs.Len())

	// nil is ignored.
	SetDefault(nil)
	assert.Equal(t, log, Default())
}
