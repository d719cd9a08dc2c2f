// YouTube Music API [Library] implementation
//
// Communicates with the FastAPI proxy server running on port 8080.
// The proxy wraps ytmusicapi Python library for YouTube Music operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytsync/internal/library"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeTrack represents a track/video in YouTube Music responses.
type YouTubeTrack struct {
	VideoID    string          `json:"videoId"`
	EntityID   string          `json:"entityId,omitempty"` // Set for uploads only
	Title      string          `json:"title"`
	Artists    []YouTubeArtist `json:"artists"`
	SetVideoID string          `json:"setVideoId,omitempty"` // For playlist operations
}

func (t YouTubeTrack) artist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0].Name
}

// YouTubePlaylist represents a playlist from YouTube Music.
type YouTubePlaylist struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	TrackCount int            `json:"trackCount"`
	Tracks     []YouTubeTrack `json:"tracks,omitempty"`
}

type uploadResponse struct {
	Status   string `json:"status"`
	VideoID  string `json:"videoId"`
	EntityID string `json:"entityId"`
}

// YouTubeService implements the [Library] interface for YouTube Music via proxy.
type YouTubeService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(baseURL string) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}

	return &YouTubeService{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the headers file path for subsequent requests.
//
// Expects credentials["auth_file"] to contain the path to the exported browser headers.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authFile, ok := credentials["auth_file"]
	if !ok || authFile == "" {
		return fmt.Errorf("%w: missing auth_file in credentials", shared.ErrMissingArgument)
	}

	y.authFile = authFile
	return nil
}

func (y *YouTubeService) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	if y.authFile == "" {
		return nil, shared.ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-File", y.authFile)
	return req, nil
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := y.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return y.send(req, result)
}

func (y *YouTubeService) send(req *http.Request, result any) error {
	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: %s %s (status %d): %s", shared.ErrAPIRequest, req.Method, req.URL.Path, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: %s %s: status %d", shared.ErrAPIRequest, req.Method, req.URL.Path, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// ListUploads retrieves all uploaded songs.
//
// Calls GET /api/uploads/songs on the proxy.
func (y *YouTubeService) ListUploads(ctx context.Context) ([]models.RemoteTrack, error) {
	var ytTracks []YouTubeTrack
	if err := y.doRequest(ctx, http.MethodGet, "/api/uploads/songs", nil, &ytTracks); err != nil {
		return nil, err
	}

	tracks := make([]models.RemoteTrack, len(ytTracks))
	for i, ytt := range ytTracks {
		tracks[i] = models.RemoteTrack{
			ID:        ytt.VideoID,
			EntityID:  ytt.EntityID,
			Name:      ytt.Title,
			Artist:    ytt.artist(),
			Playlists: map[string]string{},
		}
	}
	return tracks, nil
}

// ListPlaylists retrieves all playlists for the authenticated user.
//
// Calls GET /api/library/playlists on the proxy. Titles that are a single tag are marked as managed.
func (y *YouTubeService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var ytPlaylists []struct {
		PlaylistID string `json:"playlistId"`
		Title      string `json:"title"`
		Count      int    `json:"count"`
	}

	if err := y.doRequest(ctx, http.MethodGet, "/api/library/playlists", nil, &ytPlaylists); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, len(ytPlaylists))
	for i, ytp := range ytPlaylists {
		tag, _ := library.TagFromTitle(ytp.Title)
		playlists[i] = models.Playlist{
			ID:         ytp.PlaylistID,
			Title:      ytp.Title,
			Tag:        tag,
			TrackCount: ytp.Count,
		}
	}

	return playlists, nil
}

// ListPlaylistItems retrieves the entries of a playlist.
//
// Calls GET /api/playlists/{id} on the proxy.
func (y *YouTubeService) ListPlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	var ytPlaylist YouTubePlaylist

	endpoint := fmt.Sprintf("/api/playlists/%s", url.PathEscape(playlistID))
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &ytPlaylist); err != nil {
		return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
	}

	items := make([]models.PlaylistItem, len(ytPlaylist.Tracks))
	for i, ytt := range ytPlaylist.Tracks {
		items[i] = models.PlaylistItem{
			PlaylistID: playlistID,
			VideoID:    ytt.VideoID,
			SetVideoID: ytt.SetVideoID,
			Title:      ytt.Title,
		}
	}
	return items, nil
}

// CreatePlaylist creates a private playlist.
//
// Calls POST /api/playlists on the proxy.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, title, description string) (string, error) {
	createReq := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         title,
		Description:   description,
		PrivacyStatus: "PRIVATE",
	}

	var createResp struct {
		PlaylistID string `json:"playlist_id"`
	}
	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", createReq, &createResp); err != nil {
		return "", err
	}
	if createResp.PlaylistID == "" {
		return "", fmt.Errorf("%w: create playlist %q returned no ID", shared.ErrAPIRequest, title)
	}

	return createResp.PlaylistID, nil
}

// DeletePlaylist deletes a playlist.
//
// Calls DELETE /api/playlists/{id} on the proxy.
func (y *YouTubeService) DeletePlaylist(ctx context.Context, playlistID string) error {
	endpoint := fmt.Sprintf("/api/playlists/%s", url.PathEscape(playlistID))
	return y.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// UploadTrack uploads the file at path as multipart field "file".
//
// Calls POST /api/uploads/songs on the proxy. The service processes uploads asynchronously,
// so the video ID is often missing from the response.
func (y *YouTubeService) UploadTrack(ctx context.Context, path string) (*models.RemoteTrack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := y.newRequest(ctx, http.MethodPost, "/api/uploads/songs", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var uploadResp uploadResponse
	if err := y.send(req, &uploadResp); err != nil {
		return nil, err
	}
	if uploadResp.Status != "" && uploadResp.Status != "STATUS_SUCCEEDED" {
		return nil, fmt.Errorf("%w: upload of %s: %s", shared.ErrAPIRequest, filepath.Base(path), uploadResp.Status)
	}

	return &models.RemoteTrack{
		ID:        uploadResp.VideoID,
		EntityID:  uploadResp.EntityID,
		Name:      library.DisplayName(path),
		Playlists: map[string]string{},
	}, nil
}

// DeleteTrack deletes an uploaded song.
//
// Calls DELETE /api/uploads/{entityId} on the proxy.
func (y *YouTubeService) DeleteTrack(ctx context.Context, entityID string) error {
	endpoint := fmt.Sprintf("/api/uploads/%s", url.PathEscape(entityID))
	return y.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// AddPlaylistItems adds videos to a playlist.
//
// Calls POST /api/playlists/{id}/items on the proxy.
func (y *YouTubeService) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) error {
	addReq := struct {
		VideoIDs []string `json:"video_ids"`
	}{
		VideoIDs: videoIDs,
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", url.PathEscape(playlistID))
	return y.doRequest(ctx, http.MethodPost, endpoint, addReq, nil)
}

// RemovePlaylistItems removes entries from a playlist.
//
// Calls POST /api/playlists/{id}/items/remove on the proxy. Entries are identified by the
// videoId and setVideoId pair.
func (y *YouTubeService) RemovePlaylistItems(ctx context.Context, playlistID string, items []models.PlaylistItem) error {
	type video struct {
		VideoID    string `json:"videoId"`
		SetVideoID string `json:"setVideoId"`
	}
	removeReq := struct {
		Videos []video `json:"videos"`
	}{
		Videos: make([]video, len(items)),
	}
	for i, item := range items {
		removeReq.Videos[i] = video{VideoID: item.VideoID, SetVideoID: item.SetVideoID}
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items/remove", url.PathEscape(playlistID))
	return y.doRequest(ctx, http.MethodPost, endpoint, removeReq, nil)
}
