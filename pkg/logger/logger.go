// Package logger builds the slog loggers used across llmock.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Format selects the handler New builds.
type Format int

const (
	// FormatText is slog's key=value text handler.
	FormatText Format = iota

	// FormatPretty is charmbracelet/log's colorized console handler.
	FormatPretty

	// FormatJSON is slog's JSON handler, one object per line.
	FormatJSON
)

type config struct {
	level  slog.Level
	format Format
	out    io.Writer
	attrs  []any
}

// New returns a *slog.Logger. Without options it logs text at info level to
// stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo, out: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}

	var h slog.Handler
	switch c.format {
	case FormatPretty:
		h = pretty(c)
	case FormatJSON:
		h = slog.NewJSONHandler(c.out, &slog.HandlerOptions{Level: c.level})
	default:
		h = slog.NewTextHandler(c.out, &slog.HandlerOptions{Level: c.level})
	}

	l := slog.New(h)
	if len(c.attrs) > 0 {
		l = l.With(c.attrs...)
	}
	return l
}

func pretty(c *config) *charmlog.Logger {
	level := charmlog.InfoLevel
	if c.level <= slog.LevelDebug {
		level = charmlog.DebugLevel
	}

	return charmlog.NewWithOptions(c.out, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// Console returns the terminal logger of the llmock commands: pretty output,
// or JSON lines when json is set.
func Console(w io.Writer, debug, json bool) *slog.Logger {
	format := FormatPretty
	if json {
		format = FormatJSON
	}
	return New(WithDebug(debug), WithFormat(format), WithOutput(w))
}

// File opens path for appending and returns a JSON logger writing to it. The
// caller closes the returned file.
func File(path string, debug bool) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(WithDebug(debug), WithFormat(FormatJSON), WithOutput(f)), f, nil
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(nopHandler{})
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
