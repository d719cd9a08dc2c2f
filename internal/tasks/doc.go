// Package tasks reconciles the local music directory with the remote library, with real-time progress reporting.
//
// # Core Operations
//
//  1. [Reconcile] : pure diff of the local view against the remote view
//     - Creates playlists for new tags, deletes playlists whose tag is no longer used
//     - Uploads unmatched local files, deletes unmatched uploads
//     - Adds and removes playlist memberships for matched tracks
//     - Rejects duplicate display names before planning anything
//
//  2. [SyncEngine.Snapshot] : read uploads, managed playlists and memberships once
//
//  3. [SyncEngine.Apply] : execute a [Plan] sequentially
//     - One API call per operation, paced by a rate limiter
//     - IDs of created playlists and uploaded tracks are resolved as the plan runs
//     - The first failure aborts the rest; nothing is rolled back
//
// # Plan Order
//
// Delete playlists, create playlists, delete tracks, upload tracks, remove memberships, add memberships.
// Within a group operations are sorted by tag, then track name.
//
// A retagged file changes its display name, so it is deleted and uploaded again rather than moved
// between playlists.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
