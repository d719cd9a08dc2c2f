// Package models defines the local and remote views reconciled by a sync run.
//
// The package contains two groups of types:
//
// 1. Local view: built from the music directory
//   - [LocalTrack] : one audio file with its display name and playlist tags
//   - [TagSet] : canonical set of single-letter playlist tags
//
// 2. Remote view: built from the YouTube Music uploads library
//   - [RemoteTrack] : an uploaded song with its playlist memberships
//   - [Playlist] : a playlist, managed when its title is a single tag
//   - [PlaylistItem] : one entry of a playlist
//   - [RemoteView] : snapshot of uploads, managed playlists and foreign items
//
// All values are snapshots taken once per run; they are never mutated by the API client.
package models
