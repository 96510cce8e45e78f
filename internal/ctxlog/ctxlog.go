// Package ctxlog carries the application's *slog.Logger through a
// context.Context so that every layer logs through the same configured
// handler without global state.
package ctxlog

import (
	"context"
	"log/slog"
)

// key is unexported to prevent collisions with context keys from other packages.
type key struct{}

var loggerKey = key{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from a context. Library code must never
// run without one, so a missing logger is a wiring bug and panics.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	panic("ctxlog: logger missing from context")
}

// With derives a child logger with the given attributes and stores it in a
// new context, returning both.
func With(ctx context.Context, args ...any) (context.Context, *slog.Logger) {
	logger := FromContext(ctx).With(args...)
	return WithLogger(ctx, logger), logger
}

// Discard returns a context holding a logger that drops everything. It is
// meant for tests and for callers that do not care about diagnostics.
func Discard(ctx context.Context) context.Context {
	return WithLogger(ctx, slog.New(slog.DiscardHandler))
}
