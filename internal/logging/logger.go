// Package logging defines the structured-logging interface used across the
// spillway client. Implementations wrap slog (default) or zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "video uploaded", "video_id", id, "bytes", n)
type Logger interface {
	// Debug logs verbose diagnostics (request traces, poll ticks).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Options selects the backend and output shape of New.
type Options struct {
	Backend string // "slog" (default) or "zap"
	Level   string // debug, info, warn, error
	Format  string // text (default) or json
}

// ParseLevel maps a textual level onto slog.Level. Unknown values yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a Logger writing to w according to opts. A nil w means stderr.
func New(w io.Writer, opts Options) (Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	switch strings.ToLower(opts.Backend) {
	case "", "slog":
		ho := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
		var h slog.Handler
		if strings.EqualFold(opts.Format, "json") {
			h = slog.NewJSONHandler(w, ho)
		} else {
			h = slog.NewTextHandler(w, ho)
		}
		return NewSlogLogger(slog.New(h)), nil
	case "zap":
		return NewZapLogger(w, opts.Level, opts.Format), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}
