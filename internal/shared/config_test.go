package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Library.Extension != ".mp3" {
			t.Errorf("expected extension .mp3, got %s", config.Library.Extension)
		}

		if !config.Sync.Confirm {
			t.Error("expected confirm to default to true")
		}

		if config.Sync.RateLimit != 2.0 {
			t.Errorf("expected rate limit 2.0, got %v", config.Sync.RateLimit)
		}

		if config.Logging.File != "ytsync.log" {
			t.Errorf("expected log file ytsync.log, got %s", config.Logging.File)
		}

		if config.Credentials.YouTube.ProxyURL != "http://127.0.0.1:8080" {
			t.Errorf("expected youtube proxy URL http://127.0.0.1:8080, got %s", config.Credentials.YouTube.ProxyURL)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Logging.File != DefaultConfig().Logging.File {
			t.Errorf("created config log file doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[library]
music_dir = "/srv/music"

[sync]
confirm = false

[credentials.youtube]
proxy_url = "http://localhost:9090"
headers_path = "/path/to/headers.json"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Library.MusicDir != "/srv/music" {
			t.Errorf("expected music dir /srv/music, got %s", config.Library.MusicDir)
		}

		if config.Sync.Confirm {
			t.Error("expected confirm to be overridden to false")
		}

		if config.Library.Extension != ".mp3" {
			t.Errorf("expected missing keys to keep defaults, got extension %q", config.Library.Extension)
		}

		if config.Credentials.YouTube.HeadersPath != "/path/to/headers.json" {
			t.Errorf("expected headers path /path/to/headers.json, got %s", config.Credentials.YouTube.HeadersPath)
		}
	})

	t.Run("LoadConfig rejects malformed TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[library\nmusic_dir ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("MusicDir", func(t *testing.T) {
		config := DefaultConfig()
		config.Library.MusicDir = "/data/songs"

		dir, err := config.MusicDir()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != "/data/songs" {
			t.Errorf("expected /data/songs, got %s", dir)
		}

		t.Setenv("HOME", "/home/tester")
		config.Library.MusicDir = ""
		if dir, _ := config.MusicDir(); dir != "/home/tester/Music" {
			t.Errorf("expected default ~/Music, got %s", dir)
		}

		config.Library.MusicDir = "~/tunes"
		if dir, _ := config.MusicDir(); dir != "/home/tester/tunes" {
			t.Errorf("expected expanded ~/tunes, got %s", dir)
		}
	})
}
