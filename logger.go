package spectra

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with spectra-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithAlgorithm adds an algorithm name field to the logger.
func (l *Logger) WithAlgorithm(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("algorithm", name),
	}
}

// WithGraph adds the graph's type tags to the logger.
func (l *Logger) WithGraph(vertex, edge, weight string, transposed, multiGPU bool) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			slog.Group("graph",
				"vertex_type", vertex,
				"edge_type", edge,
				"weight_type", weight,
				"transposed", transposed,
				"multi_gpu", multiGPU,
			),
		),
	}
}

// LogAlgorithm logs the outcome of an algorithm call.
func (l *Logger) LogAlgorithm(ctx context.Context, name string, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "algorithm failed",
			"algorithm", name,
			"code", CodeOf(err).String(),
			"duration", duration,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "algorithm completed",
			"algorithm", name,
			"duration", duration,
		)
	}
}

// LogTranspose logs a storage orientation change.
func (l *Logger) LogTranspose(ctx context.Context, numEdges int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "storage transpose failed",
			"edges", numEdges,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "storage transposed",
			"edges", numEdges,
			"duration", duration,
		)
	}
}

// LogEigenSolve logs eigen solver convergence.
func (l *Logger) LogEigenSolve(ctx context.Context, iterations int, converged bool, eigenvalues []float64) {
	if !converged {
		l.WarnContext(ctx, "eigen solver reached its iteration limit",
			"iterations", iterations,
			"eigenvalues", eigenvalues,
		)
	} else {
		l.DebugContext(ctx, "eigen solver converged",
			"iterations", iterations,
			"eigenvalues", eigenvalues,
		)
	}
}

// LogResultFree logs the release of a clustering result.
func (l *Logger) LogResultFree(ctx context.Context, vertices int, bytes int64) {
	l.DebugContext(ctx, "clustering result freed",
		"vertices", vertices,
		"bytes", bytes,
	)
}
