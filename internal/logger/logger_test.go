package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew_BuildsBothFormats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New("debug", format)
		require.NoError(t, err, format)
		require.NotNil(t, l)
	}
}

func TestFromZap_FieldsAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With(Fields{"conversation": "c1"})

	l.WithError(errors.New("boom")).Warn("turn failed", Fields{"seq": 3})
	l.Debug("classified", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "turn failed", entries[0].Message)
	assert.Equal(t, "c1", first["conversation"])
	assert.Equal(t, int64(3), first["seq"])
	assert.Equal(t, "boom", first["error"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestNewNop_Silent(t *testing.T) {
	l := NewNop()
	l.Info("ignored", Fields{"k": "v"})
	assert.NoError(t, l.Sync())
}
