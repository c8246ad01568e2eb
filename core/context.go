package core

import (
	"context"
	"log/slog"
)

// Context keys for execution options
type contextKey string

const (
	loggerKey contextKey = "logger"
)

// WithLogger attaches the logger used by store adapters and the experiment manager.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFrom returns the logger set by WithLogger, or slog.Default when unset.
func LoggerFrom(ctx context.Context) *slog.Logger {
	val := ctx.Value(loggerKey)
	if val == nil {
		return slog.Default()
	}
	logger, ok := val.(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}
