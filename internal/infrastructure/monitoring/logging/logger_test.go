package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"unknown-scheme://x"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestLogger_EmitsFields(t *testing.T) {
	l, logs := newObservedLogger()

	l.Info("batch complete",
		String("batch_id", "b-1"),
		Int("compounds", 42),
		Float64("duration_s", 1.5),
		Bool("compliant", true),
		Err(errors.New("partial")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "batch complete", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "b-1", fields["batch_id"])
	assert.Equal(t, int64(42), fields["compounds"])
	assert.Equal(t, 1.5, fields["duration_s"])
	assert.Equal(t, true, fields["compliant"])
	assert.Equal(t, "partial", fields["error"])
}

func TestLogger_With(t *testing.T) {
	l, logs := newObservedLogger()

	child := l.With(String("component", "analyzer"))
	child.Warn("slow compound")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "analyzer", logs.All()[0].ContextMap()["component"])
}

func TestLogger_Named(t *testing.T) {
	l, logs := newObservedLogger()

	l.Named("chem").Debug("parsed")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "chem", logs.All()[0].LoggerName)
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
}

func TestSetLevel_HotSwap(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)

	child := l.Named("worker")
	zl := child.(*zapLogger)
	assert.False(t, zl.z.Core().Enabled(zapcore.DebugLevel))

	setter, ok := l.(LevelSetter)
	require.True(t, ok)
	setter.SetLevel("debug")

	// The level handle is shared, so children pick up the change too.
	assert.True(t, zl.z.Core().Enabled(zapcore.DebugLevel))
}

func TestSetLevel_NoHandleIsNoOp(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core)
	assert.NotPanics(t, func() { l.(LevelSetter).SetLevel("debug") })
}

func TestDefault_SetAndGet(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, _ := newObservedLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil is ignored
	SetDefault(nil)
	assert.Equal(t, l, Default())
}
