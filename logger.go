package arena

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arena-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithArena adds the arena identifier to the logger.
func (l *Logger) WithArena(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("arena", id),
	}
}

// LogCreate logs arena creation.
func (l *Logger) LogCreate(ctx context.Context, capacity, blockSize int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "arena create failed",
			"capacity", capacity,
			"block_size", blockSize,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "arena created",
			"capacity", capacity,
			"block_size", blockSize,
		)
	}
}

// LogGrow logs the creation of a new region.
func (l *Logger) LogGrow(ctx context.Context, strategy Strategy, index, capacity, blockSize int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "region grow failed",
			"strategy", strategy.String(),
			"index", index,
			"capacity", capacity,
			"block_size", blockSize,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "region grown",
			"strategy", strategy.String(),
			"index", index,
			"capacity", capacity,
			"block_size", blockSize,
		)
	}
}

// LogRelease logs a failure to return a block to its provider.
func (l *Logger) LogRelease(ctx context.Context, index, blockSize int, err error) {
	l.ErrorContext(ctx, "region release failed",
		"index", index,
		"block_size", blockSize,
		"error", err,
	)
}

// LogDelete logs arena teardown.
func (l *Logger) LogDelete(ctx context.Context, regions, bytes int, err error) {
	if err != nil {
		l.WarnContext(ctx, "arena deleted with release failures",
			"regions", regions,
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "arena deleted",
			"regions", regions,
			"bytes", bytes,
		)
	}
}
