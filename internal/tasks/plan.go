package tasks

import (
	"fmt"
	"strings"
)

// OpKind identifies a remote mutation.
//
// Kinds are declared in execution order.
type OpKind int

const (
	DeletePlaylist OpKind = iota
	CreatePlaylist
	DeleteTrack
	UploadTrack
	RemoveMembership
	AddMembership
)

var opKinds = []OpKind{DeletePlaylist, CreatePlaylist, DeleteTrack, UploadTrack, RemoveMembership, AddMembership}

func (k OpKind) String() string {
	switch k {
	case DeletePlaylist:
		return "delete_playlist"
	case CreatePlaylist:
		return "create_playlist"
	case DeleteTrack:
		return "delete_track"
	case UploadTrack:
		return "upload_track"
	case RemoveMembership:
		return "remove_membership"
	case AddMembership:
		return "add_membership"
	default:
		return ""
	}
}

func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Destructive reports whether the operation removes remote data.
func (k OpKind) Destructive() bool {
	return k == DeletePlaylist || k == DeleteTrack || k == RemoveMembership
}

// Operation is one step of a [Plan].
//
// Empty PlaylistID or TrackID on an [AddMembership] refer to a playlist created or a track
// uploaded earlier in the same plan; they are resolved during [PlaylistEngine.Apply].
type Operation struct {
	Kind       OpKind `json:"kind"`
	Tag        string `json:"tag,omitempty"`
	PlaylistID string `json:"playlist_id,omitempty"`
	Track      string `json:"track,omitempty"`
	TrackID    string `json:"track_id,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	SetVideoID string `json:"set_video_id,omitempty"`
	Path       string `json:"path,omitempty"`
}

func (o Operation) String() string {
	switch o.Kind {
	case DeletePlaylist:
		return fmt.Sprintf("delete playlist %s", o.Tag)
	case CreatePlaylist:
		return fmt.Sprintf("create playlist %s", o.Tag)
	case DeleteTrack:
		return fmt.Sprintf("delete track %q", o.Track)
	case UploadTrack:
		return fmt.Sprintf("upload track %q", o.Track)
	case RemoveMembership:
		return fmt.Sprintf("remove %q from %s", o.Track, o.Tag)
	case AddMembership:
		return fmt.Sprintf("add %q to %s", o.Track, o.Tag)
	default:
		return "unknown operation"
	}
}

// Plan is the ordered list of mutations computed for one run.
type Plan struct {
	Operations []Operation `json:"operations"`
	// Unresolved holds memberships that cannot be planned because their track is not uploaded.
	Unresolved []Operation `json:"unresolved,omitempty"`
}

// Empty reports whether the plan has nothing to execute.
func (p *Plan) Empty() bool {
	return len(p.Operations) == 0
}

// Count returns the number of operations of the given kind.
func (p *Plan) Count(kind OpKind) int {
	n := 0
	for _, op := range p.Operations {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Destructive reports whether any operation deletes or removes remote data.
func (p *Plan) Destructive() bool {
	for _, op := range p.Operations {
		if op.Kind.Destructive() {
			return true
		}
	}
	return false
}

// Summary returns a one-line count of operations per kind, e.g. "2 create_playlist, 1 upload_track".
func (p *Plan) Summary() string {
	if p.Empty() {
		return "nothing to do"
	}

	parts := make([]string, 0, len(opKinds))
	for _, k := range opKinds {
		if n := p.Count(k); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	return strings.Join(parts, ", ")
}
