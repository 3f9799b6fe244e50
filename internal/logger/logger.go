// Package logger configures the process-wide slog logger. Diagnostics go to
// stderr so that stdout carries only the command's status lines.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Format selects the slog handler.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
	FormatText   Format = "text"
)

// Options describe one logger.
type Options struct {
	Format Format
	Level  slog.Level
	// Color enables ANSI colours for FormatPretty.
	Color bool
}

// OptionsFromConfig builds Options from the log_format and log_level config
// values. Colour is on only when w is a terminal.
func OptionsFromConfig(format, level string, w io.Writer) Options {
	return Options{
		Format: ParseFormat(format),
		Level:  ParseLevel(level),
		Color:  isTerminal(w),
	}
}

// Init installs the default logger on stderr.
func Init(format, level string) {
	slog.SetDefault(New(os.Stderr, OptionsFromConfig(format, level, os.Stderr)))
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	switch opts.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, handlerOpts)
	case FormatText:
		handler = slog.NewTextHandler(w, handlerOpts)
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      opts.Level,
			TimeFormat: time.Kitchen,
			NoColor:    !opts.Color,
		})
	}
	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ParseFormat is lenient: anything unrecognised is pretty.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f
	}
	return FormatPretty
}

// ParseLevel is lenient: anything unrecognised is info.
func ParseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	var level slog.Level
	switch strings.ToLower(s) {
	case "warning":
		return slog.LevelWarn
	case "":
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
