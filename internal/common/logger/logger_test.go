package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"taskType": "aggregate-farm-data"})

	log.Warn("provider failed", map[string]interface{}{
		"source": "Soil Health Card Scheme",
		"error":  errors.New("timeout"),
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "aggregate-farm-data", ctx["taskType"])
		assert.Equal(t, "Soil Health Card Scheme", ctx["source"])
		assert.Equal(t, "timeout", ctx["error"])
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	}
}

func TestBuild_Output(t *testing.T) {
	l, err := Build("info", "json", "stderr")
	assert.NoError(t, err)
	assert.NotNil(t, l)

	_, err = Build("info", "json", "/nonexistent-dir/advisory.log")
	assert.Error(t, err)
}
