// Package logging defines a minimal structured-logging interface used across
// the project. Implementations wrap slog or zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "note saved", "id", id, "status", status)
type Logger interface {
	// Debug logs diagnostics useful when tracing request and save flows.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backends accepted by New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger writing to w for the given backend and level name
// (debug, info, warn, error). Unknown levels fall back to info.
func New(backend, level string, w io.Writer) (Logger, error) {
	switch strings.ToLower(backend) {
	case "", BackendSlog:
		return newSlogLogger(level, w), nil
	case BackendZap:
		return newZapLogger(level, w), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

type fieldsKey struct{}

// WithFields returns a context whose key/value pairs are added to every
// line logged with it, after the logger's own With fields.
func WithFields(ctx context.Context, args ...any) context.Context {
	prev := fieldsFrom(ctx)
	return context.WithValue(ctx, fieldsKey{}, append(slices.Clip(prev), args...))
}

func fieldsFrom(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fieldsKey{}).([]any)
	return f
}

func withContextFields(ctx context.Context, args []any) []any {
	f := fieldsFrom(ctx)
	if len(f) == 0 {
		return args
	}
	return append(slices.Clip(f), args...)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
