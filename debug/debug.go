// Package debug carries a *slog.Logger in the context and offers helpers
// for timing and grouping the work done under it.
package debug

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Level int

const (
	_ Level = iota
	Error
	Warning
	Info
	Debug
)

type loggerCtx int

const (
	loggerCtxKey = loggerCtx(iota)
)

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// FromContext returns the context's logger, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case Error:
		return slog.LevelError
	case Warning:
		return slog.LevelWarn
	case Info:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func (l Level) Log(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Log(ctx, l.slogLevel(), msg, args...)
}

func LogError(ctx context.Context, msg string, err error) {
	FromContext(ctx).Log(ctx, slog.LevelError, msg, slog.Any("error", err))
}

func With(ctx context.Context, args ...any) (context.Context, *slog.Logger) {
	logger := FromContext(ctx).With(args...)
	return WithLogger(ctx, logger), logger
}

// Start logs the beginning of name and returns a func logging its end with
// the elapsed time. Work under the returned context logs in the name group.
func Start(ctx context.Context, name string, args ...any) (context.Context, func()) {
	logger := FromContext(ctx)
	logger.Log(ctx, slog.LevelDebug, fmt.Sprintf("%s starting", name), args...)
	ctx = WithLogger(ctx, logger.WithGroup(name))
	start := time.Now()

	return ctx, func() {
		done := append(args, slog.Duration("elapsed", time.Since(start)))
		logger.Log(ctx, slog.LevelDebug, fmt.Sprintf("%s done", name), done...)
	}
}
