// Package logger provides a logger implementation using slog
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"
	"github.com/stackhero-io/valkeyGettingStarted/internal/config"
)

// New creates a new logger writing to stderr, keeping stdout for the walkthrough narration
func New(env config.Env) *slog.Logger {
	return NewWithWriter(env, os.Stderr)
}

// NewWithWriter creates a new logger with configured formatting and logging level
func NewWithWriter(env config.Env, w io.Writer) *slog.Logger {
	var log *slog.Logger

	if env == config.Prod {
		slogOpts := &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelInfo,
		}
		log = slog.New(slog.NewJSONHandler(w, slogOpts))
	} else {
		slogOpts := &slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelDebug,
		}
		opts := &devslog.Options{
			HandlerOptions:    slogOpts,
			MaxSlicePrintSize: 10,
			SortKeys:          true,
			NewLineAfterLog:   false,
			StringerFormatter: true,
			TimeFormat:        "[15:04:05.000]",
		}

		log = slog.New(devslog.NewHandler(w, opts))
	}

	// Set the logger as the default logger
	slog.SetDefault(log)

	return log
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
