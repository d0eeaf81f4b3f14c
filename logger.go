package lsmgo

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// Logger wraps slog.Logger with lsmgo-specific helpers.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogFlush logs a memtable flush into a level-0 SSTable.
func (l *Logger) LogFlush(tableID uuid.UUID, entries int, duration time.Duration, err error) {
	if err != nil {
		l.Error("flush failed",
			"entries", entries,
			"error", err,
		)
	} else {
		l.Debug("memtable flushed",
			"sstable", tableID,
			"entries", entries,
			"duration", duration,
		)
	}
}

// LogCompaction logs a compaction run.
func (l *Logger) LogCompaction(strategy CompactionStrategy, level, inputs, dropped int, duration time.Duration, err error) {
	if err != nil {
		l.Error("compaction failed",
			"strategy", strategy.String(),
			"level", level,
			"error", err,
		)
	} else {
		l.Debug("compaction completed",
			"strategy", strategy.String(),
			"level", level,
			"input_tables", inputs,
			"dropped_entries", dropped,
			"duration", duration,
		)
	}
}
