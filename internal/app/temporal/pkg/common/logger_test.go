package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapAdapter(zap.New(core))

	adapter.Debug("debug", "k", 1)
	adapter.Info("info")
	adapter.With("namespace", "default").Warn("warn", "attempt", 2)
	adapter.Error("error")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(1), entries[0].ContextMap()["k"])
	assert.Equal(t, "warn", entries[2].Message)
	assert.Equal(t, "default", entries[2].ContextMap()["namespace"])
	assert.Equal(t, int64(2), entries[2].ContextMap()["attempt"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNewZapAdapter_Nil(t *testing.T) {
	assert.NotPanics(t, func() { NewZapAdapter(nil).Info("dropped") })
}
