package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(defaultConfigPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(defaultConfigPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLevel(config.Logging.Level))

	apiService := services.NewAPIService(config.Credentials.YouTube.ProxyURL, nil)
	if headers, err := shared.ExpandHome(config.Credentials.YouTube.HeadersPath); err == nil {
		apiService.SetAuthFile(headers)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    apiService,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "ytsync",
		Usage:    "Mirror a tagged music directory to YouTube Music uploads and playlists",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrAborted) {
			logger.Warn("aborted; nothing was changed")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
