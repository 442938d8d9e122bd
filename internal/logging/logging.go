// Package logging builds the application logger.
//
// Loggers are passed through context.Context so commands and the TUI share
// the same configured instance.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/javiermolinar/tablero/internal/config"
)

// DebugLogPath is where --debug writes when no log file is configured.
const DebugLogPath = "tablero-debug.log"

// New creates a logger writing to w at the given level.
// Timestamps are formatted as "HH:MM:SS.ms".
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ParseLevel converts a config level name to a log.Level. Unknown names map to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Setup builds the logger described by cfg. With debug set the level is
// forced to debug and output goes to a file even if none is configured, since
// the TUI owns the terminal. The returned closer releases the file, if any.
func Setup(cfg config.LogConfig, debug bool) (*log.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)
	file := cfg.File
	if debug {
		level = log.DebugLevel
		if file == "" {
			file = DebugLogPath
		}
	}

	if file == "" {
		return New(os.Stderr, level), nopCloser{}, nil
	}

	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	if _, err := rotator.Write(nil); err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(rotator, level), rotator, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a new context carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger in ctx, or log.Default() if there is none.
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
