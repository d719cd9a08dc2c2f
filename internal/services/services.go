// package services defines interface Library for the remote music library
//
// YouTube Music (via proxy)
package services

import (
	"context"

	"github.com/desertthunder/ytsync/internal/models"
)

// Library defines the remote operations a sync run needs from a music service.
//
// Each method maps to exactly one API call; callers are responsible for sequencing.
type Library interface {
	// Authenticate records the credentials used by subsequent requests.
	// No login is performed.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// ListUploads returns every uploaded song. Playlist memberships are left empty.
	ListUploads(ctx context.Context) ([]models.RemoteTrack, error)

	// ListPlaylists returns all playlists in the user's library.
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)

	// ListPlaylistItems returns the entries of a playlist.
	ListPlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error)

	// CreatePlaylist creates a private playlist and returns its ID.
	CreatePlaylist(ctx context.Context, title, description string) (string, error)

	// DeletePlaylist removes a playlist and, with it, all its memberships.
	DeletePlaylist(ctx context.Context, playlistID string) error

	// UploadTrack uploads a local file.
	// The returned track may have an empty ID while the service is still processing it.
	UploadTrack(ctx context.Context, path string) (*models.RemoteTrack, error)

	// DeleteTrack removes an upload by its entity ID.
	DeleteTrack(ctx context.Context, entityID string) error

	// AddPlaylistItems adds videos to a playlist.
	AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) error

	// RemovePlaylistItems removes entries from a playlist.
	RemovePlaylistItems(ctx context.Context, playlistID string, items []models.PlaylistItem) error

	// Name returns the name of the service (e.g., "YouTube Music")
	Name() string
}
