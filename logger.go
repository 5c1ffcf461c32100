package animalcache

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with cache-specific helpers.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithGeneration adds a generation field to the logger.
func (l *Logger) WithGeneration(gen uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("generation", gen),
	}
}

// LogBuild logs the outcome of a build.
func (l *Logger) LogBuild(ctx context.Context, stats BuildStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache build failed",
			"fetched", stats.Fetched,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "cache build completed",
		"records", stats.Indexed,
		"skipped", stats.Skipped,
		"duplicates", stats.Duplicates,
		"categories", stats.DistinctCategories,
		"names", stats.DistinctNames,
		"max_depth", stats.Tree.MaxDepth,
		"fetch", stats.FetchDuration,
		"duration", stats.Duration,
	)
}

// LogSkipped logs a record dropped during a build or by a hook.
func (l *Logger) LogSkipped(ctx context.Context, err error) {
	l.WarnContext(ctx, "record skipped", "error", err)
}

// LogHook logs an incremental mutation.
func (l *Logger) LogHook(ctx context.Context, kind MutationKind, id string, applied bool) {
	l.DebugContext(ctx, "mutation hook",
		"kind", kind,
		"id", id,
		"applied", applied,
	)
}

// LogReplay logs mutations replayed onto a freshly built snapshot.
func (l *Logger) LogReplay(ctx context.Context, queued, applied int) {
	if queued == 0 {
		return
	}
	l.InfoContext(ctx, "replayed queued mutations",
		"queued", queued,
		"applied", applied,
	)
}
