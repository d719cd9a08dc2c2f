// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// RunLog is a [log.Logger] that writes to the console and a per-run log file.
type RunLog struct {
	*log.Logger
	file *os.File
}

// Path returns the location of the run log file.
func (r *RunLog) Path() string {
	return r.file.Name()
}

// Close flushes and closes the run log file.
func (r *RunLog) Close() error {
	return r.file.Close()
}

// NewRunLogger opens (and truncates) the log file at path and returns a logger that writes every entry to both
// console and the file.
//
// A nil console writes to the file only.
func NewRunLogger(path string, console io.Writer, cfg LoggingConfig) (*RunLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var w io.Writer = f
	if console != nil {
		w = io.MultiWriter(console, f)
	}

	logger := NewLogger(w)
	SetLogLevel(logger, ParseLevel(cfg.Level))
	logger.SetFormatter(ParseFormatter(cfg.Format))
	return &RunLog{Logger: logger, file: f}, nil
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// ParseLevel maps a config level name to a [log.Level], falling back to [log.InfoLevel].
func ParseLevel(s string) log.Level {
	if s == "" {
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ParseFormatter maps a config format name (text, json, logfmt) to a [log.Formatter].
func ParseFormatter(s string) log.Formatter {
	switch strings.ToLower(s) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}
