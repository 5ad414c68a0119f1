package logger

import (
	"testing"

	"github.com/tj/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("chatty"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}

func TestNopLogger(t *testing.T) {
	log := NewNop()
	log.Info("ignored", "key", "value")
	log.Error("ignored", "error", "boom")

	child := log.(*ZapLogger).With("service", "test")
	child.Debug("ignored")
	assert.NotNil(t, child)
}
