package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/library"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Scan prints the local view of the music directory.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	dir := cmd.String("music-dir")
	if dir == "" {
		dir, err = config.MusicDir()
	} else {
		dir, err = shared.ExpandHome(dir)
	}
	if err != nil {
		return err
	}

	r.logger.Debug("scanning music directory", "dir", dir)
	scan, err := library.Scan(dir, library.ScanOptions{Extension: config.Library.Extension})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(scan, true)
	}
	return r.writeBytes(formatter.ScanToText(scan))
}

// Remote prints the uploads and managed playlists of the remote library.
func (r *Runner) Remote(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	lib, err := r.remoteLibrary(ctx, config)
	if err != nil {
		return err
	}

	r.logger.Debug("reading remote library", "service", lib.Name())
	view, err := tasks.NewPlaylistEngine(lib, tasks.EngineOptions{Logger: r.logger}).Snapshot(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to read remote library: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, true)
	}
	return r.writeBytes(formatter.RemoteToText(view))
}
