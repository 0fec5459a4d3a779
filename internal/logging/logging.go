// Package logging configures the leveled diagnostic logger used by check.
// User-facing results are printed by the output package; the logger is for
// what happened underneath (document loads, saves, list switches).
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Environment variables read by DefaultOptions.
const (
	EnvLevel  = "CHECK_LOG_LEVEL"
	EnvFormat = "CHECK_LOG_FORMAT" // text, json or logfmt
)

// Options holds configuration for the logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:     ParseLevel(os.Getenv(EnvLevel)),
		Formatter: ParseFormatter(os.Getenv(EnvFormat)),
		Prefix:    "check",
	}
}

// New creates a logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything. Used by tests and as the
// zero value for components that were not given a logger.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel parses a level name. Unknown or empty names map to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter parses a formatter name to a charmbracelet/log Formatter.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
