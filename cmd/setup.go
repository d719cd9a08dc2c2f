package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default config.toml.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Config written to %s\n", configPath)
	return r.writePlain("Set library.music_dir and credentials.youtube.headers_path before running 'ytsync sync'.\n")
}

// SetupYouTube converts a browser cURL command into the headers file forwarded to the proxy.
//
// Nothing is sent to the proxy; run 'ytsync auth status' afterwards to check the headers.
func (r *Runner) SetupYouTube(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for YouTube Music headers")

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	if outputPath == "" {
		outputPath = r.config.Credentials.YouTube.HeadersPath
	}
	if outputPath, err = shared.ExpandHome(outputPath); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := shared.MarshalJSON(curlHeaders.ToHeadersFile(), true)
	if err != nil {
		return fmt.Errorf("failed to marshal headers: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write headers file: %w", err)
	}

	r.logger.Info("headers file saved", "path", outputPath, "headers", len(curlHeaders.Headers))

	r.writePlain("✓ YouTube Music headers saved to %s\n", outputPath)
	r.writePlain("\nNext steps:\n")
	r.writePlain("1. Update config.toml with: credentials.youtube.headers_path = \"%s\"\n", outputPath)
	r.writePlain("2. Run 'ytsync remote' to check that the proxy accepts them\n")

	return nil
}
