// package tasks reconciles the local music directory with the remote library.
//
// The core abstraction is SyncEngine, which reads the remote view, plans mutations and applies them.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/library"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultPlaylistDescription is used for playlists created without a configured description.
const DefaultPlaylistDescription = "Managed by ytsync"

// ApplyResult describes the outcome of executing a [Plan].
type ApplyResult struct {
	Applied  []Operation       // Completed operations with resolved IDs
	Total    int               // Operations in the plan
	Created  map[string]string // Tag -> ID of playlists created by the plan
	Uploaded map[string]string // Track name -> video ID of uploads made by the plan; empty while processing

	listed map[string]string // Uploads listing read after the first upload with no ID, by name
}

// Complete reports whether every operation was applied.
func (r *ApplyResult) Complete() bool {
	return len(r.Applied) == r.Total
}

// OperationError reports the operation that aborted a plan.
//
// Operations before Index were applied and are not rolled back.
type OperationError struct {
	Index int
	Op    Operation
	Err   error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %d (%s) failed: %v", e.Index+1, e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// SyncEngine defines operations for syncing the music directory with the remote library.
type SyncEngine interface {
	// Snapshot reads uploads, managed playlists and their memberships.
	Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*models.RemoteView, error)

	// Plan snapshots the remote library and reconciles it with the local tracks.
	Plan(ctx context.Context, local []models.LocalTrack, opts Options, progress chan<- ProgressUpdate) (*Plan, error)

	// Apply executes the plan in order and stops at the first failure.
	Apply(ctx context.Context, plan *Plan, progress chan<- ProgressUpdate) (*ApplyResult, error)
}

// EngineOptions configures a [PlaylistEngine].
type EngineOptions struct {
	RateLimit           float64     // Requests per second while applying; zero or less disables pacing
	PlaylistDescription string      // Description for created playlists
	Logger              *log.Logger // Receives one entry per operation; nil discards
}

// PlaylistEngine implements SyncEngine against a [services.Library].
type PlaylistEngine struct {
	library     services.Library
	limiter     *rate.Limiter
	logger      *log.Logger
	description string
}

var _ SyncEngine = (*PlaylistEngine)(nil)

// NewPlaylistEngine creates a new PlaylistEngine for the provided library.
func NewPlaylistEngine(lib services.Library, opts EngineOptions) *PlaylistEngine {
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	description := opts.PlaylistDescription
	if description == "" {
		description = DefaultPlaylistDescription
	}

	return &PlaylistEngine{
		library:     lib,
		limiter:     rate.NewLimiter(limit, 1),
		logger:      logger,
		description: description,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Snapshot reads the remote view.
//
// Only playlists titled with a single tag are read. An entry of a managed playlist that is not an
// upload, or that repeats a track already in the playlist, is recorded in [models.RemoteView.Foreign].
func (e *PlaylistEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*models.RemoteView, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchUploadsUpdate(1, 2))
	tracks, err := e.library.ListUploads(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	e.sendProgress(progress, fetchPlaylistsUpdate(2, 2))
	playlists, err := e.library.ListPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	view := &models.RemoteView{Tracks: tracks}
	for _, pl := range playlists {
		if tag, ok := library.TagFromTitle(pl.Title); ok {
			pl.Tag = tag
			view.Playlists = append(view.Playlists, pl)
		}
	}

	byVideo := make(map[string]int, len(tracks))
	for i := range view.Tracks {
		if view.Tracks[i].Playlists == nil {
			view.Tracks[i].Playlists = map[string]string{}
		}
		if id := view.Tracks[i].ID; id != "" {
			if _, ok := byVideo[id]; !ok {
				byVideo[id] = i
			}
		}
	}

	for i, pl := range view.Playlists {
		e.sendProgress(progress, fetchPlaylistItemsUpdate(i+1, len(view.Playlists), pl.Title))

		items, err := e.library.ListPlaylistItems(ctx, pl.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read playlist %s: %w", pl.Title, err)
		}

		for _, item := range items {
			idx, ok := byVideo[item.VideoID]
			if !ok || view.Tracks[idx].InPlaylist(pl.ID) {
				view.Foreign = append(view.Foreign, item)
				continue
			}
			view.Tracks[idx].Playlists[pl.ID] = item.SetVideoID
		}
	}

	e.logger.Debug("read remote library", "uploads", len(view.Tracks), "playlists", len(view.Playlists), "foreign", len(view.Foreign))
	return view, nil
}

// Plan snapshots the remote library and reconciles it with local.
//
// Every planned operation is logged at info level; unresolved memberships are logged as warnings.
func (e *PlaylistEngine) Plan(ctx context.Context, local []models.LocalTrack, opts Options, progress chan<- ProgressUpdate) (*Plan, error) {
	remote, err := e.Snapshot(ctx, progress)
	if err != nil {
		return nil, err
	}

	plan, err := Reconcile(local, remote, opts)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, compareUpdate(plan))
	e.logger.Info("computed plan", "summary", plan.Summary())
	for i, op := range plan.Operations {
		e.logger.Info("planned", "step", i+1, "op", op.String())
	}
	for _, op := range plan.Unresolved {
		e.logger.Warn("cannot add membership for a track that is not uploaded; run with library sync first", "op", op.String())
	}
	return plan, nil
}

// Apply executes plan strictly in order, one API call per operation.
//
// The first failure stops the run and is returned as an [*OperationError] together with the partial result.
func (e *PlaylistEngine) Apply(ctx context.Context, plan *Plan, progress chan<- ProgressUpdate) (*ApplyResult, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	result := &ApplyResult{
		Applied:  make([]Operation, 0, len(plan.Operations)),
		Total:    len(plan.Operations),
		Created:  map[string]string{},
		Uploaded: map[string]string{},
	}

	for i, op := range plan.Operations {
		if err := e.limiter.Wait(ctx); err != nil {
			return result, &OperationError{Index: i, Op: op, Err: err}
		}

		applied, err := e.apply(ctx, op, result)
		if err != nil {
			e.logger.Error("operation failed", "step", i+1, "op", op.String(), "err", err)
			return result, &OperationError{Index: i, Op: op, Err: err}
		}

		result.Applied = append(result.Applied, applied)
		e.logger.Info("applied", "step", i+1, "total", result.Total, "op", applied.String())
		e.sendProgress(progress, applyOperationUpdate(i+1, result.Total, applied))
	}

	return result, nil
}

func (e *PlaylistEngine) apply(ctx context.Context, op Operation, result *ApplyResult) (Operation, error) {
	switch op.Kind {
	case DeletePlaylist:
		return op, e.library.DeletePlaylist(ctx, op.PlaylistID)

	case CreatePlaylist:
		id, err := e.library.CreatePlaylist(ctx, op.Tag, e.description)
		if err != nil {
			return op, err
		}
		op.PlaylistID = id
		result.Created[op.Tag] = id
		return op, nil

	case DeleteTrack:
		if op.EntityID == "" {
			return op, fmt.Errorf("%w: %s has no entity ID", shared.ErrInvalidArgument, op.Track)
		}
		return op, e.library.DeleteTrack(ctx, op.EntityID)

	case UploadTrack:
		track, err := e.library.UploadTrack(ctx, op.Path)
		if err != nil {
			return op, err
		}
		op.TrackID = track.ID
		op.EntityID = track.EntityID
		if op.TrackID == "" {
			e.logger.Debug("upload accepted without video ID", "track", op.Track)
		}
		result.Uploaded[op.Track] = op.TrackID
		return op, nil

	case RemoveMembership:
		item := models.PlaylistItem{PlaylistID: op.PlaylistID, VideoID: op.TrackID, SetVideoID: op.SetVideoID, Title: op.Track}
		return op, e.library.RemovePlaylistItems(ctx, op.PlaylistID, []models.PlaylistItem{item})

	case AddMembership:
		if op.PlaylistID == "" {
			id, ok := result.Created[op.Tag]
			if !ok {
				return op, fmt.Errorf("%w: playlist %s was not created", shared.ErrPlaylistNotFound, op.Tag)
			}
			op.PlaylistID = id
		}
		if op.TrackID == "" {
			id := result.Uploaded[op.Track]
			if id == "" {
				var err error
				if id, err = e.resolveUpload(ctx, op.Track, result); err != nil {
					return op, err
				}
			}
			op.TrackID = id
		}
		return op, e.library.AddPlaylistItems(ctx, op.PlaylistID, []string{op.TrackID})

	default:
		return op, fmt.Errorf("%w: unknown operation kind %d", shared.ErrInvalidArgument, op.Kind)
	}
}

// resolveUpload finds the video ID of an upload by name.
//
// The uploads list is read at most once per Apply and cached in result; the most recent upload
// wins when several share the name.
func (e *PlaylistEngine) resolveUpload(ctx context.Context, name string, result *ApplyResult) (string, error) {
	if result.listed == nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", err
		}

		tracks, err := e.library.ListUploads(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list uploads: %w", err)
		}

		result.listed = make(map[string]string, len(tracks))
		for _, t := range tracks {
			if t.ID != "" {
				result.listed[t.Name] = t.ID
			}
		}
	}

	id, ok := result.listed[name]
	if !ok {
		return "", fmt.Errorf("%w: %q is still processing; rerun later", shared.ErrTrackNotFound, name)
	}

	result.Uploaded[name] = id
	e.logger.Debug("resolved upload", "track", name, "video_id", id)
	return id, nil
}
