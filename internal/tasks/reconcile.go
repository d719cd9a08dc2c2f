package tasks

import (
	"fmt"
	"sort"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

// Options selects the phases of a sync run.
type Options struct {
	SyncLibrary   bool // Upload and delete tracks
	SyncPlaylists bool // Create and delete playlists, adjust memberships
}

// Reconcile diffs the local view against the remote view and returns the mutations that make
// the remote match the local directory.
//
// Tracks are matched by exact display name. Two local files with the same name are rejected
// with a [*shared.DuplicateTrackError] before anything is planned.
func Reconcile(local []models.LocalTrack, remote *models.RemoteView, opts Options) (*Plan, error) {
	if !opts.SyncLibrary && !opts.SyncPlaylists {
		return nil, fmt.Errorf("%w: no sync phase selected", shared.ErrInvalidArgument)
	}
	if err := checkDuplicates(local); err != nil {
		return nil, err
	}
	if remote == nil {
		remote = &models.RemoteView{}
	}

	r := newReconciler(local, remote, opts)
	if opts.SyncPlaylists {
		r.playlists()
	}
	if opts.SyncLibrary {
		r.tracks()
	}
	if opts.SyncPlaylists {
		r.memberships()
	}

	sortOperations(r.plan.Operations)
	sortOperations(r.plan.Unresolved)
	return r.plan, nil
}

type reconciler struct {
	opts      Options
	local     []models.LocalTrack
	remote    *models.RemoteView
	localTags models.TagSet
	byTag     map[rune]models.Playlist      // first managed playlist per tag
	deleted   map[string]bool               // playlist IDs removed by this plan
	byName    map[string]models.RemoteTrack // first upload per name
	extra     []models.RemoteTrack          // uploads sharing a name with an earlier one
	removed   map[string]bool               // video IDs deleted by this plan
	plan      *Plan
}

func newReconciler(local []models.LocalTrack, remote *models.RemoteView, opts Options) *reconciler {
	r := &reconciler{
		opts:    opts,
		local:   local,
		remote:  remote,
		byTag:   map[rune]models.Playlist{},
		deleted: map[string]bool{},
		removed: map[string]bool{},
		byName:  map[string]models.RemoteTrack{},
		plan:    &Plan{Operations: []Operation{}},
	}

	for _, t := range local {
		r.localTags = r.localTags.Union(t.Tags)
	}

	for _, pl := range remote.Playlists {
		if !pl.Managed() {
			continue
		}
		if _, ok := r.byTag[pl.Tag]; ok {
			r.deletePlaylist(pl)
			continue
		}
		r.byTag[pl.Tag] = pl
	}

	for _, t := range remote.Tracks {
		if _, ok := r.byName[t.Name]; ok {
			r.extra = append(r.extra, t)
			continue
		}
		r.byName[t.Name] = t
	}
	return r
}

func (r *reconciler) add(op Operation) {
	r.plan.Operations = append(r.plan.Operations, op)
}

func (r *reconciler) deletePlaylist(pl models.Playlist) {
	r.deleted[pl.ID] = true
	if r.opts.SyncPlaylists {
		r.add(Operation{Kind: DeletePlaylist, Tag: string(pl.Tag), PlaylistID: pl.ID})
	}
}

// playlists plans creation of missing tags and deletion of stale ones.
func (r *reconciler) playlists() {
	for tag, pl := range r.byTag {
		if !r.localTags.Contains(tag) {
			r.deletePlaylist(pl)
		}
	}
	for _, tag := range r.localTags.Tags() {
		if _, ok := r.byTag[tag]; !ok {
			r.add(Operation{Kind: CreatePlaylist, Tag: string(tag)})
		}
	}
}

// tracks plans uploads for unmatched local files and deletions for unmatched uploads.
func (r *reconciler) tracks() {
	names := make(map[string]bool, len(r.local))
	for _, t := range r.local {
		names[t.Name] = true
		if _, ok := r.byName[t.Name]; !ok {
			r.add(Operation{Kind: UploadTrack, Track: t.Name, Path: t.Path})
		}
	}

	for name, t := range r.byName {
		if !names[name] {
			r.deleteTrack(t)
		}
	}
	for _, t := range r.extra {
		r.deleteTrack(t)
	}
}

func (r *reconciler) deleteTrack(t models.RemoteTrack) {
	r.removed[t.ID] = true
	r.add(Operation{Kind: DeleteTrack, Track: t.Name, TrackID: t.ID, EntityID: t.EntityID})
}

// playlistFor returns the ID of the playlist that will hold tag after this plan.
// It is empty when the playlist is created by the plan.
func (r *reconciler) playlistFor(tag rune) string {
	pl, ok := r.byTag[tag]
	if !ok || r.deleted[pl.ID] {
		return ""
	}
	return pl.ID
}

// memberships diffs local tag sets against remote playlist memberships.
func (r *reconciler) memberships() {
	matched := map[string]bool{}

	for _, lt := range r.local {
		rt, ok := r.byName[lt.Name]
		if !ok {
			for _, tag := range lt.Tags.Tags() {
				op := Operation{Kind: AddMembership, Tag: string(tag), PlaylistID: r.playlistFor(tag), Track: lt.Name}
				if r.opts.SyncLibrary {
					r.add(op)
				} else {
					r.plan.Unresolved = append(r.plan.Unresolved, op)
				}
			}
			continue
		}

		matched[rt.ID] = true
		for _, tag := range lt.Tags.Tags() {
			pid := r.playlistFor(tag)
			if pid != "" && rt.InPlaylist(pid) {
				continue
			}
			r.add(Operation{Kind: AddMembership, Tag: string(tag), PlaylistID: pid, Track: lt.Name, TrackID: rt.ID})
		}
		r.removeStale(rt, lt.Tags)
	}

	// Uploads without a local file are deleted by the library phase, which also drops their memberships.
	if !r.opts.SyncLibrary {
		for _, rt := range r.remote.Tracks {
			if !matched[rt.ID] {
				r.removeStale(rt, "")
			}
		}
	}

	for _, item := range r.remote.Foreign {
		if r.removed[item.VideoID] {
			continue
		}
		if tag, ok := r.tagOf(item.PlaylistID); ok {
			r.add(Operation{
				Kind:       RemoveMembership,
				Tag:        string(tag),
				PlaylistID: item.PlaylistID,
				Track:      item.Title,
				TrackID:    item.VideoID,
				SetVideoID: item.SetVideoID,
			})
		}
	}
}

// removeStale plans removal of rt from every kept managed playlist whose tag is not in keep.
func (r *reconciler) removeStale(rt models.RemoteTrack, keep models.TagSet) {
	for pid, setVideoID := range rt.Playlists {
		tag, ok := r.tagOf(pid)
		if !ok || keep.Contains(tag) {
			continue
		}
		r.add(Operation{
			Kind:       RemoveMembership,
			Tag:        string(tag),
			PlaylistID: pid,
			Track:      rt.Name,
			TrackID:    rt.ID,
			SetVideoID: setVideoID,
		})
	}
}

// tagOf returns the tag of a managed playlist that survives this plan.
func (r *reconciler) tagOf(playlistID string) (rune, bool) {
	if r.deleted[playlistID] {
		return 0, false
	}
	for tag, pl := range r.byTag {
		if pl.ID == playlistID {
			return tag, true
		}
	}
	return 0, false
}

func checkDuplicates(local []models.LocalTrack) error {
	paths := map[string][]string{}
	for _, t := range local {
		paths[t.Name] = append(paths[t.Name], t.Path)
	}

	var dupes []string
	for name, p := range paths {
		if len(p) > 1 {
			dupes = append(dupes, name)
		}
	}
	if len(dupes) == 0 {
		return nil
	}

	sort.Strings(dupes)
	return &shared.DuplicateTrackError{Name: dupes[0], Paths: paths[dupes[0]]}
}

func sortOperations(ops []Operation) {
	sort.SliceStable(ops, func(i, j int) bool {
		a, b := ops[i], ops[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Tag != b.Tag {
			return a.Tag < b.Tag
		}
		if a.Track != b.Track {
			return a.Track < b.Track
		}
		if a.PlaylistID != b.PlaylistID {
			return a.PlaylistID < b.PlaylistID
		}
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		return a.SetVideoID < b.SetVideoID
	})
}
