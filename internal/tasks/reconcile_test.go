package tasks

import (
	"errors"
	"reflect"
	"testing"

	"github.com/desertthunder/ytsync/internal/library"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

var both = Options{SyncLibrary: true, SyncPlaylists: true}

func localTracks(filenames ...string) []models.LocalTrack {
	tracks := make([]models.LocalTrack, len(filenames))
	for i, f := range filenames {
		tracks[i] = models.LocalTrack{
			Name:     library.DisplayName(f),
			Filename: f,
			Path:     "/music/" + f,
			Tags:     library.ParseTags(f),
		}
	}
	return tracks
}

func managed(id, title string) models.Playlist {
	tag, _ := library.TagFromTitle(title)
	return models.Playlist{ID: id, Title: title, Tag: tag}
}

func uploaded(id, name string, memberships map[string]string) models.RemoteTrack {
	if memberships == nil {
		memberships = map[string]string{}
	}
	return models.RemoteTrack{ID: id, EntityID: "e" + id, Name: name, Playlists: memberships}
}

func assertOperations(t *testing.T, got, want []Operation) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d operations, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("operation %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReconcile(t *testing.T) {
	tc := []struct {
		name   string
		local  []models.LocalTrack
		remote *models.RemoteView
		opts   Options
		want   []Operation
	}{
		{
			name:   "empty remote",
			local:  localTracks("a [x].mp3", "b [xy].mp3"),
			remote: &models.RemoteView{},
			opts:   both,
			want: []Operation{
				{Kind: CreatePlaylist, Tag: "x"},
				{Kind: CreatePlaylist, Tag: "y"},
				{Kind: UploadTrack, Track: "a [x]", Path: "/music/a [x].mp3"},
				{Kind: UploadTrack, Track: "b [xy]", Path: "/music/b [xy].mp3"},
				{Kind: AddMembership, Tag: "x", Track: "a [x]"},
				{Kind: AddMembership, Tag: "x", Track: "b [xy]"},
				{Kind: AddMembership, Tag: "y", Track: "b [xy]"},
			},
		},
		{
			name:  "tag change deletes and uploads again",
			local: localTracks("a [y].mp3"),
			remote: &models.RemoteView{
				Tracks:    []models.RemoteTrack{uploaded("v1", "a [x]", map[string]string{"PLx": "s1"})},
				Playlists: []models.Playlist{managed("PLx", "x")},
			},
			opts: both,
			want: []Operation{
				{Kind: DeletePlaylist, Tag: "x", PlaylistID: "PLx"},
				{Kind: CreatePlaylist, Tag: "y"},
				{Kind: DeleteTrack, Track: "a [x]", TrackID: "v1", EntityID: "ev1"},
				{Kind: UploadTrack, Track: "a [y]", Path: "/music/a [y].mp3"},
				{Kind: AddMembership, Tag: "y", Track: "a [y]"},
			},
		},
		{
			name:  "unused playlist is deleted",
			local: localTracks("a.mp3"),
			remote: &models.RemoteView{
				Tracks:    []models.RemoteTrack{uploaded("v1", "a", nil)},
				Playlists: []models.Playlist{managed("PLz", "z")},
			},
			opts: both,
			want: []Operation{
				{Kind: DeletePlaylist, Tag: "z", PlaylistID: "PLz"},
			},
		},
		{
			name:  "unmanaged playlists are ignored",
			local: localTracks("a.mp3"),
			remote: &models.RemoteView{
				Tracks:    []models.RemoteTrack{uploaded("v1", "a", nil)},
				Playlists: []models.Playlist{{ID: "PL1", Title: "Road Trip"}},
			},
			opts: both,
			want: []Operation{},
		},
		{
			name:  "membership drift on matched track",
			local: localTracks("a [xy].mp3", "b.mp3"),
			remote: &models.RemoteView{
				Tracks: []models.RemoteTrack{
					uploaded("v1", "a [xy]", map[string]string{"PLx": "s1"}),
					uploaded("v2", "b", map[string]string{"PLx": "s2"}),
				},
				Playlists: []models.Playlist{managed("PLx", "x"), managed("PLy", "y")},
			},
			opts: both,
			want: []Operation{
				{Kind: RemoveMembership, Tag: "x", PlaylistID: "PLx", Track: "b", TrackID: "v2", SetVideoID: "s2"},
				{Kind: AddMembership, Tag: "y", PlaylistID: "PLy", Track: "a [xy]", TrackID: "v1"},
			},
		},
		{
			name:  "duplicate remote playlists and titles",
			local: localTracks("a [x].mp3"),
			remote: &models.RemoteView{
				Tracks: []models.RemoteTrack{
					uploaded("v1", "a [x]", map[string]string{"PLx": "s1"}),
					uploaded("v2", "a [x]", nil),
				},
				Playlists: []models.Playlist{managed("PLx", "x"), managed("PLx2", "x")},
			},
			opts: both,
			want: []Operation{
				{Kind: DeletePlaylist, Tag: "x", PlaylistID: "PLx2"},
				{Kind: DeleteTrack, Track: "a [x]", TrackID: "v2", EntityID: "ev2"},
			},
		},
		{
			name:  "foreign playlist entries are removed",
			local: localTracks("a [x].mp3"),
			remote: &models.RemoteView{
				Tracks:    []models.RemoteTrack{uploaded("v1", "a [x]", map[string]string{"PLx": "s1"})},
				Playlists: []models.Playlist{managed("PLx", "x")},
				Foreign:   []models.PlaylistItem{{PlaylistID: "PLx", VideoID: "radio", SetVideoID: "s9", Title: "radio hit"}},
			},
			opts: both,
			want: []Operation{
				{Kind: RemoveMembership, Tag: "x", PlaylistID: "PLx", Track: "radio hit", TrackID: "radio", SetVideoID: "s9"},
			},
		},
		{
			name:  "library only",
			local: localTracks("a [x].mp3"),
			remote: &models.RemoteView{
				Tracks:    []models.RemoteTrack{uploaded("v1", "old", nil)},
				Playlists: []models.Playlist{managed("PLz", "z")},
			},
			opts: Options{SyncLibrary: true},
			want: []Operation{
				{Kind: DeleteTrack, Track: "old", TrackID: "v1", EntityID: "ev1"},
				{Kind: UploadTrack, Track: "a [x]", Path: "/music/a [x].mp3"},
			},
		},
		{
			name:  "playlists only removes memberships of unmatched uploads",
			local: localTracks("a [x].mp3"),
			remote: &models.RemoteView{
				Tracks: []models.RemoteTrack{
					uploaded("v1", "a [x]", nil),
					uploaded("v2", "old", map[string]string{"PLx": "s2"}),
				},
				Playlists: []models.Playlist{managed("PLx", "x")},
			},
			opts: Options{SyncPlaylists: true},
			want: []Operation{
				{Kind: RemoveMembership, Tag: "x", PlaylistID: "PLx", Track: "old", TrackID: "v2", SetVideoID: "s2"},
				{Kind: AddMembership, Tag: "x", PlaylistID: "PLx", Track: "a [x]", TrackID: "v1"},
			},
		},
		{
			name:  "memberships in deleted playlists are skipped",
			local: localTracks("a.mp3"),
			remote: &models.RemoteView{
				Tracks:    []models.RemoteTrack{uploaded("v1", "a", map[string]string{"PLx": "s1"})},
				Playlists: []models.Playlist{managed("PLx", "x")},
			},
			opts: both,
			want: []Operation{
				{Kind: DeletePlaylist, Tag: "x", PlaylistID: "PLx"},
			},
		},
		{
			name:   "malformed tags are library only",
			local:  localTracks("a [X1].mp3"),
			remote: &models.RemoteView{},
			opts:   both,
			want: []Operation{
				{Kind: UploadTrack, Track: "a [X1]", Path: "/music/a [X1].mp3"},
			},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Reconcile(tt.local, tt.remote, tt.opts)
			if err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}
			assertOperations(t, plan.Operations, tt.want)
		})
	}
}

func TestReconcile_Unresolved(t *testing.T) {
	plan, err := Reconcile(localTracks("a [x].mp3"), nil, Options{SyncPlaylists: true})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	assertOperations(t, plan.Operations, []Operation{{Kind: CreatePlaylist, Tag: "x"}})
	assertOperations(t, plan.Unresolved, []Operation{{Kind: AddMembership, Tag: "x", Track: "a [x]"}})
}

func TestReconcile_Errors(t *testing.T) {
	t.Run("duplicate display names", func(t *testing.T) {
		local := localTracks("a [x].mp3", "b.mp3")
		local = append(local, models.LocalTrack{Name: "a [x]", Filename: "a [x].MP3", Path: "/music/a [x].MP3", Tags: "x"})

		_, err := Reconcile(local, nil, both)
		if !errors.Is(err, shared.ErrDuplicateTrack) {
			t.Fatalf("expected ErrDuplicateTrack, got %v", err)
		}

		var dup *shared.DuplicateTrackError
		if !errors.As(err, &dup) || dup.Name != "a [x]" || len(dup.Paths) != 2 {
			t.Errorf("unexpected duplicate error %#v", err)
		}
	})

	t.Run("no phase selected", func(t *testing.T) {
		if _, err := Reconcile(localTracks("a.mp3"), nil, Options{}); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestReconcile_Deterministic(t *testing.T) {
	local := localTracks("c [ab].mp3", "a [ba].mp3", "b [c].mp3")
	remote := &models.RemoteView{
		Tracks: []models.RemoteTrack{
			uploaded("v1", "z", nil),
			uploaded("v2", "y", nil),
			uploaded("v3", "x", nil),
		},
		Playlists: []models.Playlist{managed("PLq", "q"), managed("PLp", "p")},
	}

	first, _ := Reconcile(local, remote, both)
	for range 20 {
		again, _ := Reconcile(local, remote, both)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("plan changed between runs:\n%v\n%v", first.Operations, again.Operations)
		}
	}

	for i := 1; i < len(first.Operations); i++ {
		if first.Operations[i-1].Kind > first.Operations[i].Kind {
			t.Errorf("operation %d out of kind order: %v", i, first.Operations)
		}
	}
}

func TestPlan(t *testing.T) {
	plan := &Plan{Operations: []Operation{
		{Kind: CreatePlaylist, Tag: "x"},
		{Kind: UploadTrack, Track: "a [x]"},
		{Kind: AddMembership, Tag: "x", Track: "a [x]"},
	}}

	if plan.Empty() || plan.Destructive() {
		t.Error("expected non-empty, non-destructive plan")
	}
	if got := plan.Summary(); got != "1 create_playlist, 1 upload_track, 1 add_membership" {
		t.Errorf("Summary() = %q", got)
	}

	plan.Operations = append(plan.Operations, Operation{Kind: RemoveMembership, Tag: "y", Track: "b"})
	if !plan.Destructive() || plan.Count(RemoveMembership) != 1 {
		t.Error("expected remove membership to be destructive")
	}

	if (&Plan{}).Summary() != "nothing to do" {
		t.Error("expected empty summary")
	}

	if s := (Operation{Kind: AddMembership, Tag: "x", Track: "a [x]"}).String(); s != `add "a [x]" to x` {
		t.Errorf("String() = %s", s)
	}
}
