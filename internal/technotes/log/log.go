// Package log wraps zerolog behind the small context-aware API the rest of
// the service logs through. Fields are passed as KV pairs and the request id,
// when present on the context, is attached to every entry.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Field is a single structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// KV builds a structured logging field.
func KV(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger is the application logger.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger writing JSON lines to stdout at the given level
// (debug, info, warn or error).
func New(level string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	zl := zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
	return &Logger{zl: zl}, nil
}

// NewWithWriter is like New but writes to w; used by tests.
func NewWithWriter(level string, w io.Writer) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &Logger{zl: zl}, nil
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Debug logs a debug entry.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, l.zl.Debug(), msg, fields)
}

// Info logs an info entry.
func (l *Logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, l.zl.Info(), msg, fields)
}

// Warn logs a warning entry.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, l.zl.Warn(), msg, fields)
}

// Error logs an error entry.
func (l *Logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, l.zl.Error(), msg, fields)
}

func (l *Logger) emit(ctx context.Context, e *zerolog.Event, msg string, fields []Field) {
	if id := RequestID(ctx); id != "" {
		e = e.Str("request_id", id)
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			e = e.Str(f.Key, v)
		case error:
			e = e.AnErr(f.Key, v)
		default:
			e = e.Interface(f.Key, v)
		}
	}
	e.Msg(msg)
}
