package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tc := []struct {
		in   string
		want log.Level
	}{
		{in: "", want: log.InfoLevel},
		{in: "debug", want: log.DebugLevel},
		{in: "WARN", want: log.WarnLevel},
		{in: "error", want: log.ErrorLevel},
		{in: "nonsense", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRunLogger(t *testing.T) {
	t.Run("writes to console and file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.log")
		console := &bytes.Buffer{}

		rl, err := NewRunLogger(path, console, LoggingConfig{Level: "debug"})
		if err != nil {
			t.Fatalf("NewRunLogger() error = %v", err)
		}

		rl.Info("planned", "operations", 3)
		if err := rl.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "planned") {
			t.Errorf("log file missing entry, got %q", string(data))
		}
		if !strings.Contains(console.String(), "planned") {
			t.Errorf("console missing entry, got %q", console.String())
		}
		if rl.Path() != path {
			t.Errorf("Path() = %s, want %s", rl.Path(), path)
		}
	})

	t.Run("truncates previous run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.log")
		if err := os.WriteFile(path, []byte("stale entry\n"), 0644); err != nil {
			t.Fatalf("failed to seed log file: %v", err)
		}

		rl, err := NewRunLogger(path, nil, LoggingConfig{Format: "json"})
		if err != nil {
			t.Fatalf("NewRunLogger() error = %v", err)
		}
		rl.Info("fresh")
		rl.Close()

		data, _ := os.ReadFile(path)
		if strings.Contains(string(data), "stale entry") {
			t.Error("expected log file to be truncated")
		}
		if !strings.HasPrefix(string(data), "{") || !strings.Contains(string(data), "fresh") {
			t.Errorf("expected JSON formatted entry, got %q", string(data))
		}
	})

	t.Run("fails for unwritable path", func(t *testing.T) {
		_, err := NewRunLogger(filepath.Join(t.TempDir(), "missing", "run.log"), nil, LoggingConfig{})
		if err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestSetLogLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf)

	SetLogLevel(logger, ParseLevel("warn"))
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("expected info entry to be filtered, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn entry, got %q", buf.String())
	}
}

func TestDuplicateTrackError(t *testing.T) {
	err := error(&DuplicateTrackError{Name: "song [a]", Paths: []string{"/m/song [a].mp3", "/m/song [a].MP3"}})

	if !errors.Is(err, ErrDuplicateTrack) {
		t.Error("expected errors.Is(err, ErrDuplicateTrack)")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("expected duplicate names to count as a configuration error")
	}
	if !strings.Contains(err.Error(), "song [a].MP3") {
		t.Errorf("expected message to list paths, got %s", err.Error())
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "headers.json")
	if err := os.WriteFile(path, []byte(`{"cookie":"a=b"}`), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	data, err := VerifyAndReadFile(path)
	if err != nil {
		t.Fatalf("VerifyAndReadFile() error = %v", err)
	}
	if err := ValidateJSON(data); err != nil {
		t.Errorf("ValidateJSON() error = %v", err)
	}

	if _, err := VerifyAndReadFile(dir); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for directory, got %v", err)
	}
	if _, err := VerifyAndReadFile(""); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument for empty path, got %v", err)
	}
	if err := ValidateJSON([]byte("{nope")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
