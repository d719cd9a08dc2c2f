// Package services defines the [Library] interface for the remote music library and implements it for YouTube Music.
//
// # Library Interface
//
// The reconciler and executor only depend on [Library], so tests run against an in-memory fake.
//
// # YouTube Music Implementation
//
// [YouTubeService] communicates with the FastAPI proxy server wrapping ytmusicapi.
//
// The proxy handles YouTube Music authentication complexities.
// The headers file path is sent via X-Auth-File header on each request.
// All operations are synchronous HTTP calls to the proxy endpoints:
//
//	GET    /api/uploads/songs               list uploads
//	POST   /api/uploads/songs               upload (multipart "file")
//	DELETE /api/uploads/{entityId}          delete upload
//	GET    /api/library/playlists           list playlists
//	GET    /api/playlists/{id}              playlist with tracks
//	POST   /api/playlists                   create playlist
//	DELETE /api/playlists/{id}              delete playlist
//	POST   /api/playlists/{id}/items        add videos
//	POST   /api/playlists/{id}/items/remove remove entries
//
// [APIService] issues raw requests for health checks, credential uploads and debugging.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAPIRequest] : proxy returned a non-2xx status
//   - [shared.ErrServiceUnavailable] : proxy unreachable
//   - [shared.ErrPlaylistNotFound] : playlist ID not found
package services
