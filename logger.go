package clustergo

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/clustergo/internal/kmeans"
)

// Logger wraps slog.Logger with clustering-specific context.
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
	return NewLogger(slog.DiscardHandler)
}

// WithRunID adds the run identifier to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithK adds the cluster count to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, uri string, points int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset load failed",
			"uri", uri,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "dataset loaded",
			"uri", uri,
			"points", points,
		)
	}
}

// LogIteration logs one refinement pass.
func (l *Logger) LogIteration(ctx context.Context, stats kmeans.IterationStats) {
	l.DebugContext(ctx, "iteration completed",
		"iteration", stats.Iteration,
		"norm", stats.Norm,
		"inertia", stats.Inertia,
		"empty_clusters", stats.Empty,
	)
}

// LogRun logs the outcome of a run. res may be nil when err is set.
func (l *Logger) LogRun(ctx context.Context, res *Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "run converged",
		"strategy", res.Strategy.String(),
		"seed", res.Seed,
		"iterations", res.Iterations,
		"inertia", res.Inertia,
		"duration", res.Duration,
	)
}

// LogBatch logs the outcome of a batch of runs.
func (l *Logger) LogBatch(ctx context.Context, runs int, best *Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch failed",
			"runs", runs,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "batch completed",
		"runs", runs,
		"best_run_id", best.ID,
		"best_inertia", best.Inertia,
	)
}
