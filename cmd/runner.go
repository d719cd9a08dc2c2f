package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	library   services.Library
	api       *services.APIService
	logger    *log.Logger
	output    io.Writer
	logOutput io.Writer
	input     *bufio.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Library   services.Library // Overrides the YouTube Music proxy client
	API       *services.APIService
	Logger    *log.Logger
	Output    io.Writer // Plans, reports and command results
	LogOutput io.Writer // Console side of run logs and progress bars
	Input     io.Reader // Answers to confirmation prompts
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.Credentials.YouTube.ProxyURL, nil)
	}

	return &Runner{
		config:    opts.Config,
		library:   opts.Library,
		api:       opts.API,
		logger:    opts.Logger,
		output:    opts.Output,
		logOutput: opts.LogOutput,
		input:     bufio.NewReader(opts.Input),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, planCommand, scanCommand, remoteCommand, setupCommand, authCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the config named by --config, or the one the runner was built with when the
// default file is absent.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if cmd.IsSet("config") {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		return r.config, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded config", "path", path)
	return config, nil
}

// remoteLibrary returns the injected library or a proxy client authenticated with the configured headers file.
func (r *Runner) remoteLibrary(ctx context.Context, config *shared.Config) (services.Library, error) {
	if r.library != nil {
		return r.library, nil
	}

	yt := config.Credentials.YouTube
	headers, err := shared.ExpandHome(yt.HeadersPath)
	if err != nil {
		return nil, err
	}

	svc := services.NewYouTubeService(yt.ProxyURL)
	if err := svc.Authenticate(ctx, map[string]string{"auth_file": headers}); err != nil {
		return nil, fmt.Errorf("%w: set credentials.youtube.headers_path (see 'ytsync setup youtube'): %v", shared.ErrNotAuthenticated, err)
	}
	return svc, nil
}

// confirm prints prompt and reads a yes/no answer; anything but y or yes declines.
func (r *Runner) confirm(prompt string) bool {
	r.writePlain("%s [y/N] ", prompt)

	answer, err := r.input.ReadString('\n')
	if err != nil && answer == "" {
		r.writePlain("\n")
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
