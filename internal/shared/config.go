package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Library     LibraryConfig     `toml:"library"`
	Sync        SyncConfig        `toml:"sync"`
	Logging     LoggingConfig     `toml:"logging"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// LibraryConfig describes the local music directory.
type LibraryConfig struct {
	MusicDir  string `toml:"music_dir"`
	Extension string `toml:"extension"`
}

// SyncConfig contains defaults for sync runs.
type SyncConfig struct {
	Confirm             bool    `toml:"confirm"`
	RateLimit           float64 `toml:"rate_limit"`
	PlaylistDescription string  `toml:"playlist_description"`
}

// LoggingConfig controls the per-run log file.
type LoggingConfig struct {
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	YouTube YouTubeConfig `toml:"youtube"`
}

// YouTubeConfig contains YouTube Music proxy settings.
//
// HeadersPath points at the browser headers file exported by the user; it is forwarded to the proxy on each request.
type YouTubeConfig struct {
	ProxyURL    string `toml:"proxy_url"`
	HeadersPath string `toml:"headers_path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MusicDir resolves the configured music directory, defaulting to ~/Music.
func (c *Config) MusicDir() (string, error) {
	if c.Library.MusicDir != "" {
		return ExpandHome(c.Library.MusicDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: no music_dir configured and home directory unknown: %v", ErrMissingConfig, err)
	}
	return filepath.Join(home, "Music"), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
