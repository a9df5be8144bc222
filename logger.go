package biorad

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sweep-scoped field helpers so that log
// lines carry consistent experiment and fold attributes.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. If handler is nil, a
// text handler to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithExperiment tags the logger with an experiment id and seed.
func (l *Logger) WithExperiment(id string, seed int64) *Logger {
	return &Logger{Logger: l.Logger.With("experiment", id, "seed", seed)}
}

// WithFold tags the logger with an outer fold index.
func (l *Logger) WithFold(fold int) *Logger {
	return &Logger{Logger: l.Logger.With("fold", fold)}
}
