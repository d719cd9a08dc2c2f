// package models defines the data model for the library sync
package models

import (
	"sort"
	"strings"
)

// TagSet is a sorted, duplicate-free set of playlist tags.
type TagSet string

// NewTagSet builds a canonical [TagSet] from the given tags.
func NewTagSet(tags ...rune) TagSet {
	seen := make(map[rune]bool, len(tags))
	out := make([]rune, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return TagSet(out)
}

// Contains reports whether tag is in the set.
func (s TagSet) Contains(tag rune) bool {
	return strings.ContainsRune(string(s), tag)
}

// Tags returns the tags in order.
func (s TagSet) Tags() []rune {
	return []rune(string(s))
}

// Union returns the set of tags present in either set.
func (s TagSet) Union(o TagSet) TagSet {
	return NewTagSet(append(s.Tags(), o.Tags()...)...)
}

// Empty reports whether the set holds no tags.
func (s TagSet) Empty() bool {
	return s == ""
}

// LocalTrack is one audio file in the music directory.
type LocalTrack struct {
	Name     string // Display name: filename without extension
	Filename string // Base filename
	Path     string // Absolute path used for uploads
	Tags     TagSet // Playlists the file belongs to
	Title    string // Embedded title tag, if any
	Artist   string // Embedded artist tag, if any
}

// RemoteTrack is an uploaded song in the remote library.
type RemoteTrack struct {
	ID        string            // Video ID used for playlist membership
	EntityID  string            // Upload entity ID used for deletion
	Name      string            // Title reported by the service
	Artist    string            //
	Playlists map[string]string // Playlist ID -> set video ID of the membership
}

// InPlaylist reports whether the track is a member of the playlist.
func (t RemoteTrack) InPlaylist(playlistID string) bool {
	_, ok := t.Playlists[playlistID]
	return ok
}

// Playlist represents a remote playlist.
//
// Tag is zero for playlists whose title is not a single tag; those are never touched.
type Playlist struct {
	ID         string
	Title      string
	Tag        rune
	TrackCount int
}

// Managed reports whether the playlist mirrors a local tag.
func (p Playlist) Managed() bool {
	return p.Tag != 0
}

// PlaylistItem is one entry of a remote playlist.
type PlaylistItem struct {
	PlaylistID string
	VideoID    string
	SetVideoID string // Identifies this entry when removing it
	Title      string
}

// RemoteView is the remote state read at the start of a run.
type RemoteView struct {
	Tracks    []RemoteTrack  // Uploaded songs
	Playlists []Playlist     // Managed playlists only
	Foreign   []PlaylistItem // Entries of managed playlists that are not uploads
}
