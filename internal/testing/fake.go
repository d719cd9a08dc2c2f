package testing

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

// FakeLibrary is an in-memory remote library implementing services.Library.
//
// Uploads are named after the file stem. Deleting an upload also drops it from every playlist.
type FakeLibrary struct {
	Uploads   []models.RemoteTrack
	Playlists []FakePlaylist

	// HideUploadIDs makes UploadTrack return an empty video ID, as the real service does while processing.
	HideUploadIDs bool
	// Processing keeps new uploads out of ListUploads entirely.
	Processing bool

	// FailOn makes the Nth call (1-based, FailAt) of the named method return FailErr.
	FailOn  string
	FailAt  int
	FailErr error

	Calls []string
	calls map[string]int
	seq   int
}

// FakePlaylist is a playlist held by [FakeLibrary].
type FakePlaylist struct {
	ID    string
	Title string
	Items []models.PlaylistItem
}

// NewFakeLibrary returns an empty remote library.
func NewFakeLibrary() *FakeLibrary {
	return &FakeLibrary{calls: map[string]int{}}
}

func (f *FakeLibrary) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *FakeLibrary) record(method string) error {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.Calls = append(f.Calls, method)
	f.calls[method]++

	at := f.FailAt
	if at == 0 {
		at = 1
	}
	if method == f.FailOn && f.calls[method] == at {
		if f.FailErr != nil {
			return f.FailErr
		}
		return fmt.Errorf("%w: %s failed", shared.ErrAPIRequest, method)
	}
	return nil
}

// CallCount returns how many times method was called.
func (f *FakeLibrary) CallCount(method string) int {
	return f.calls[method]
}

// MutationCount returns the number of calls that changed remote state.
func (f *FakeLibrary) MutationCount() int {
	n := 0
	for _, c := range f.Calls {
		if !strings.HasPrefix(c, "List") && c != "Authenticate" {
			n++
		}
	}
	return n
}

// AddUpload seeds an uploaded song and returns its video ID.
func (f *FakeLibrary) AddUpload(name string) string {
	id := f.next("v")
	f.Uploads = append(f.Uploads, models.RemoteTrack{ID: id, EntityID: "e" + id, Name: name})
	return id
}

// AddPlaylist seeds a playlist containing the given video IDs and returns its ID.
func (f *FakeLibrary) AddPlaylist(title string, videoIDs ...string) string {
	pl := FakePlaylist{ID: f.next("PL"), Title: title}
	for _, vid := range videoIDs {
		pl.Items = append(pl.Items, f.item(pl.ID, vid))
	}
	f.Playlists = append(f.Playlists, pl)
	return pl.ID
}

func (f *FakeLibrary) item(playlistID, videoID string) models.PlaylistItem {
	title := videoID
	for _, u := range f.Uploads {
		if u.ID == videoID {
			title = u.Name
		}
	}
	return models.PlaylistItem{PlaylistID: playlistID, VideoID: videoID, SetVideoID: f.next("s"), Title: title}
}

func (f *FakeLibrary) playlist(id string) (*FakePlaylist, error) {
	for i := range f.Playlists {
		if f.Playlists[i].ID == id {
			return &f.Playlists[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
}

// State returns playlist title -> sorted names of the uploads it contains, plus "" -> all upload names.
func (f *FakeLibrary) State() map[string][]string {
	names := map[string]string{}
	state := map[string][]string{"": {}}
	for _, u := range f.Uploads {
		names[u.ID] = u.Name
		state[""] = append(state[""], u.Name)
	}
	for _, pl := range f.Playlists {
		members := []string{}
		for _, it := range pl.Items {
			if name, ok := names[it.VideoID]; ok {
				members = append(members, name)
			} else {
				members = append(members, "foreign:"+it.VideoID)
			}
		}
		sort.Strings(members)
		state[pl.Title] = members
	}
	sort.Strings(state[""])
	return state
}

func (f *FakeLibrary) Name() string { return "fake" }

func (f *FakeLibrary) Authenticate(ctx context.Context, credentials map[string]string) error {
	return f.record("Authenticate")
}

func (f *FakeLibrary) ListUploads(ctx context.Context) ([]models.RemoteTrack, error) {
	if err := f.record("ListUploads"); err != nil {
		return nil, err
	}
	out := make([]models.RemoteTrack, len(f.Uploads))
	for i, u := range f.Uploads {
		u.Playlists = map[string]string{}
		out[i] = u
	}
	return out, nil
}

func (f *FakeLibrary) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if err := f.record("ListPlaylists"); err != nil {
		return nil, err
	}
	out := make([]models.Playlist, len(f.Playlists))
	for i, pl := range f.Playlists {
		out[i] = models.Playlist{ID: pl.ID, Title: pl.Title, TrackCount: len(pl.Items)}
		if len(pl.Title) == 1 && pl.Title[0] >= 'a' && pl.Title[0] <= 'z' {
			out[i].Tag = rune(pl.Title[0])
		}
	}
	return out, nil
}

func (f *FakeLibrary) ListPlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	if err := f.record("ListPlaylistItems"); err != nil {
		return nil, err
	}
	pl, err := f.playlist(playlistID)
	if err != nil {
		return nil, err
	}
	return append([]models.PlaylistItem(nil), pl.Items...), nil
}

func (f *FakeLibrary) CreatePlaylist(ctx context.Context, title, description string) (string, error) {
	if err := f.record("CreatePlaylist"); err != nil {
		return "", err
	}
	return f.AddPlaylist(title), nil
}

func (f *FakeLibrary) DeletePlaylist(ctx context.Context, playlistID string) error {
	if err := f.record("DeletePlaylist"); err != nil {
		return err
	}
	for i, pl := range f.Playlists {
		if pl.ID == playlistID {
			f.Playlists = append(f.Playlists[:i], f.Playlists[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
}

func (f *FakeLibrary) UploadTrack(ctx context.Context, path string) (*models.RemoteTrack, error) {
	if err := f.record("UploadTrack"); err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	id := f.next("v")
	track := models.RemoteTrack{ID: id, EntityID: "e" + id, Name: name}
	if !f.Processing {
		f.Uploads = append(f.Uploads, track)
	}

	if f.HideUploadIDs || f.Processing {
		track.ID = ""
	}
	track.Playlists = map[string]string{}
	return &track, nil
}

func (f *FakeLibrary) DeleteTrack(ctx context.Context, entityID string) error {
	if err := f.record("DeleteTrack"); err != nil {
		return err
	}
	for i, u := range f.Uploads {
		if u.EntityID != entityID {
			continue
		}
		f.Uploads = append(f.Uploads[:i], f.Uploads[i+1:]...)
		for p := range f.Playlists {
			kept := f.Playlists[p].Items[:0]
			for _, it := range f.Playlists[p].Items {
				if it.VideoID != u.ID {
					kept = append(kept, it)
				}
			}
			f.Playlists[p].Items = kept
		}
		return nil
	}
	return fmt.Errorf("%w: entity %s", shared.ErrTrackNotFound, entityID)
}

func (f *FakeLibrary) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) error {
	if err := f.record("AddPlaylistItems"); err != nil {
		return err
	}
	pl, err := f.playlist(playlistID)
	if err != nil {
		return err
	}
	for _, vid := range videoIDs {
		if vid == "" {
			return fmt.Errorf("%w: empty video ID", shared.ErrInvalidArgument)
		}
		pl.Items = append(pl.Items, f.item(playlistID, vid))
	}
	return nil
}

func (f *FakeLibrary) RemovePlaylistItems(ctx context.Context, playlistID string, items []models.PlaylistItem) error {
	if err := f.record("RemovePlaylistItems"); err != nil {
		return err
	}
	pl, err := f.playlist(playlistID)
	if err != nil {
		return err
	}
	for _, rm := range items {
		found := false
		for i, it := range pl.Items {
			if it.SetVideoID == rm.SetVideoID && it.VideoID == rm.VideoID {
				pl.Items = append(pl.Items[:i], pl.Items[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s not in playlist %s", shared.ErrTrackNotFound, rm.VideoID, playlistID)
		}
	}
	return nil
}
