package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured application logger.
// It writes to Stderr so that operator-facing progress output on Stdout
// stays clean. It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter is New with an explicit sink, for tests and for callers that
// tee logs into a run directory.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// LevelFromVerbosity maps a -v/-q count onto a slog level: 0 is Info,
// 1 is Debug, anything higher stays Debug, and negative counts quiet the
// logger down to Warn and then Error.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v >= 1:
		return slog.LevelDebug
	case v == 0:
		return slog.LevelInfo
	case v == -1:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
