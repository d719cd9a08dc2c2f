package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/library"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	pb "github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// syncRun carries everything a sync or plan command needs after setup.
type syncRun struct {
	config *shared.Config
	log    *shared.RunLog
	logger *log.Logger
	scan   *library.ScanResult
	engine *tasks.PlaylistEngine
}

func (s *syncRun) Close() error {
	return s.log.Close()
}

// Sync plans and applies the changes that make the remote library mirror the music directory.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	opts := phaseOptions(cmd)
	if !opts.SyncLibrary && !opts.SyncPlaylists {
		return fmt.Errorf("%w: at least one of --sync-library or --sync-playlists is required", shared.ErrMissingArgument)
	}

	interactive := cmd.Bool("interactive")
	run, err := r.startRun(ctx, cmd, !interactive)
	if err != nil {
		return err
	}
	defer run.Close()

	plan, err := run.engine.Plan(ctx, run.scan.Tracks, opts, nil)
	if err != nil {
		run.logger.Error("planning failed", "err", err)
		return err
	}

	if interactive {
		return r.review(ctx, run, plan)
	}

	text, err := formatter.PlanToText(plan)
	if err != nil {
		return err
	}
	if err := r.writeBytes(text); err != nil {
		return err
	}

	if plan.Empty() {
		run.logger.Info("remote library already in sync")
		return nil
	}

	confirm := run.config.Sync.Confirm
	if cmd.IsSet("confirm") {
		confirm = cmd.Bool("confirm")
	}
	if cmd.Bool("noconfirm") {
		confirm = false
	}

	if confirm && plan.Destructive() {
		if !r.confirm(fmt.Sprintf("Apply %d operations, including deletions?", len(plan.Operations))) {
			run.logger.Warn("plan declined", "operations", len(plan.Operations))
			return shared.ErrAborted
		}
	}

	result, err := r.applyWithProgress(ctx, run.engine, plan)
	return r.report(run, result, err)
}

// Plan computes the sync plan without applying it.
func (r *Runner) Plan(ctx context.Context, cmd *cli.Command) error {
	opts := phaseOptions(cmd)
	if !opts.SyncLibrary && !opts.SyncPlaylists {
		opts = tasks.Options{SyncLibrary: true, SyncPlaylists: true}
	}

	run, err := r.startRun(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer run.Close()

	plan, err := run.engine.Plan(ctx, run.scan.Tracks, opts, nil)
	if err != nil {
		run.logger.Error("planning failed", "err", err)
		return err
	}

	format := cmd.String("format")
	if path := cmd.String("output"); path != "" {
		if err := formatter.WritePlan(plan, format, path); err != nil {
			return err
		}
		run.logger.Info("plan written", "path", path, "format", format)
		return r.writePlain("✓ Plan written to %s (%s)\n", path, plan.Summary())
	}

	data, err := formatter.FormatPlan(plan, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

func phaseOptions(cmd *cli.Command) tasks.Options {
	return tasks.Options{
		SyncLibrary:   cmd.Bool("sync-library"),
		SyncPlaylists: cmd.Bool("sync-playlists"),
	}
}

// startRun loads config, opens the run log, scans the music directory and builds the engine.
//
// With console unset the run log is written to the file only.
func (r *Runner) startRun(ctx context.Context, cmd *cli.Command, console bool) (*syncRun, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logPath := cmd.String("log-file")
	if logPath == "" {
		logPath = config.Logging.File
	}

	var consoleOut io.Writer
	if console {
		consoleOut = r.logOutput
	}
	runLog, err := shared.NewRunLogger(logPath, consoleOut, config.Logging)
	if err != nil {
		return nil, err
	}
	logger := shared.WithLogger(runLog.Logger, "run", shared.GenerateID())

	run := &syncRun{config: config, log: runLog, logger: logger}
	fail := func(err error) (*syncRun, error) {
		logger.Error("run failed", "err", err)
		runLog.Close()
		return nil, err
	}

	dir := cmd.String("music-dir")
	if dir == "" {
		if dir, err = config.MusicDir(); err != nil {
			return fail(err)
		}
	} else if dir, err = shared.ExpandHome(dir); err != nil {
		return fail(err)
	}

	scan, err := library.Scan(dir, library.ScanOptions{Extension: config.Library.Extension})
	if err != nil {
		return fail(err)
	}
	for _, w := range scan.Warnings {
		logger.Warn(w)
	}
	logger.Info("scanned music directory", "dir", scan.Dir, "tracks", len(scan.Tracks), "ignored", len(scan.Ignored))
	run.scan = scan

	lib, err := r.remoteLibrary(ctx, config)
	if err != nil {
		return fail(err)
	}

	run.engine = tasks.NewPlaylistEngine(lib, tasks.EngineOptions{
		RateLimit:           config.Sync.RateLimit,
		PlaylistDescription: config.Sync.PlaylistDescription,
		Logger:              logger,
	})
	return run, nil
}

// applyWithProgress applies plan while rendering a progress bar from the engine's progress updates.
func (r *Runner) applyWithProgress(ctx context.Context, engine tasks.SyncEngine, plan *tasks.Plan) (*tasks.ApplyResult, error) {
	bar := newProgressBar(r.logOutput, len(plan.Operations), "applying plan")
	progress := make(chan tasks.ProgressUpdate, len(plan.Operations))
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			if update.Phase != tasks.ApplyOperation {
				continue
			}
			bar.Describe(update.Message)
			bar.Set(update.Step)
		}
	}()

	result, err := engine.Apply(ctx, plan, progress)
	close(progress)
	<-done

	if err == nil {
		bar.Finish()
	}
	fmt.Fprintln(r.logOutput)
	return result, err
}

// newProgressBar builds a bar with a plain ASCII theme writing to w.
func newProgressBar(w io.Writer, total int, description string) *pb.ProgressBar {
	return pb.NewOptions(total,
		pb.OptionSetWriter(w),
		pb.OptionSetDescription(description),
		pb.OptionShowCount(),
		pb.OptionSetTheme(pb.Theme{Saucer: "=", SaucerPadding: " ", BarStart: "[", BarEnd: "]"}),
	)
}

// report prints the outcome of an apply and turns a partial run into an error that asks for a rerun.
func (r *Runner) report(run *syncRun, result *tasks.ApplyResult, err error) error {
	applied, total := 0, 0
	if result != nil {
		applied, total = len(result.Applied), result.Total
	}

	if err != nil {
		run.logger.Error("sync stopped", "applied", applied, "total", total, "err", err)
		if werr := r.writePlain("✗ Sync stopped after %d of %d operations. Rerun to finish; the plan is recomputed from the remote library.\n", applied, total); werr != nil {
			run.logger.Warn("failed to write summary", "err", werr)
		}
		return err
	}

	run.logger.Info("sync complete", "applied", applied, "created", len(result.Created), "uploaded", len(result.Uploaded))
	return r.writePlain("✓ Applied %d operations (%d playlists created, %d tracks uploaded)\nLog: %s\n",
		applied, len(result.Created), len(result.Uploaded), run.log.Path())
}
