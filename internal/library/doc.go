// Package library builds the local view of a sync run from the music directory.
//
// Filenames carry playlist membership in a bracketed section right before the extension:
//
//	song [ad].mp3 -> playlists "a" and "d"
//	song.mp3      -> library only
//	song [A].mp3  -> library only (malformed section)
//
// Parsing never fails; anything that does not follow the convention is treated as tagless.
// [Scan] lists the directory once and reads embedded ID3 metadata with [tag.ReadFrom].
package library
