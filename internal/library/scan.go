package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/dhowden/tag"
)

// DefaultExtension is used when [ScanOptions.Extension] is empty.
const DefaultExtension = ".mp3"

// ScanOptions configures a directory scan.
type ScanOptions struct {
	Extension    string // Audio file extension, matched case-insensitively
	SkipMetadata bool   // Do not open files to read ID3 tags
}

// ScanResult is the local view of the music directory.
type ScanResult struct {
	Dir      string
	Tracks   []models.LocalTrack // Sorted by display name
	Ignored  []string            // Entries that are not audio files
	Warnings []string
}

// Tags returns the distinct tags used across all tracks.
func (r *ScanResult) Tags() models.TagSet {
	var all models.TagSet
	for _, t := range r.Tracks {
		all = all.Union(t.Tags)
	}
	return all
}

// Scan lists dir (non-recursively) and returns one [models.LocalTrack] per audio file.
func Scan(dir string, opts ScanOptions) (*ScanResult, error) {
	ext := opts.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read music directory: %v", shared.ErrInvalidConfig, err)
	}

	result := &ScanResult{Dir: abs}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.EqualFold(filepath.Ext(name), ext) {
			result.Ignored = append(result.Ignored, name)
			continue
		}

		track := models.LocalTrack{
			Name:     DisplayName(name),
			Filename: name,
			Path:     filepath.Join(abs, name),
			Tags:     ParseTags(name),
		}

		if !opts.SkipMetadata {
			track.Title, track.Artist = readMetadata(track.Path)
			if track.Title != "" && track.Title != track.Name {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: embedded title %q differs from file name; the upload will not match", name, track.Title))
			}
		}

		result.Tracks = append(result.Tracks, track)
	}

	sort.Slice(result.Tracks, func(i, j int) bool { return result.Tracks[i].Name < result.Tracks[j].Name })
	return result, nil
}

// readMetadata returns the embedded title and artist; unreadable tags yield empty strings.
func readMetadata(path string) (title, artist string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(m.Title()), strings.TrimSpace(m.Artist())
}
