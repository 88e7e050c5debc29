// Package logger wraps zap behind the small field-map interface used across
// arecabot.
package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// Fields are structured key/value pairs attached to a log entry.
type Fields map[string]any

// Logger is the logging interface every package depends on.
type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
	With(fields Fields) Logger
	WithError(err error) Logger
	Sync() error
}

// NewZap builds a zap logger. format "json" selects the production encoder,
// anything else the human-readable development one. Unknown levels mean info.
func NewZap(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	// stdout belongs to the chat shell.
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// ParseLevel maps a level name onto a zap level.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New returns a Logger backed by zap.
func New(level, format string) (Logger, error) {
	z, err := NewZap(level, format)
	if err != nil {
		return nil, err
	}
	return &zapWrapper{l: z}, nil
}

// FromZap adapts an existing zap logger.
func FromZap(l *zap.Logger) Logger {
	return &zapWrapper{l: l}
}

// NewTest logs through t.Log.
func NewTest(t testing.TB) Logger {
	return &zapWrapper{l: zaptest.NewLogger(t)}
}

// NewNop discards everything.
func NewNop() Logger {
	return &zapWrapper{l: zap.NewNop()}
}

type zapWrapper struct {
	l *zap.Logger
}

func (z *zapWrapper) Debug(msg string, fields Fields) { z.l.Debug(msg, toZap(fields)...) }

func (z *zapWrapper) Info(msg string, fields Fields) { z.l.Info(msg, toZap(fields)...) }

func (z *zapWrapper) Warn(msg string, fields Fields) { z.l.Warn(msg, toZap(fields)...) }

func (z *zapWrapper) Error(msg string, fields Fields) { z.l.Error(msg, toZap(fields)...) }

func (z *zapWrapper) With(fields Fields) Logger {
	return &zapWrapper{l: z.l.With(toZap(fields)...)}
}

func (z *zapWrapper) WithError(err error) Logger {
	return &zapWrapper{l: z.l.With(zap.Error(err))}
}

func (z *zapWrapper) Sync() error { return z.l.Sync() }

func toZap(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
