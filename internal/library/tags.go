package library

import (
	"path/filepath"
	"strings"

	"github.com/desertthunder/ytsync/internal/models"
)

// ParseTags extracts the playlist tags from filename.
//
// The section is the text between the last '[' and a ']' that immediately precedes the extension.
// Every character must be a tag, otherwise the result is empty.
func ParseTags(filename string) models.TagSet {
	stem := DisplayName(filename)
	if !strings.HasSuffix(stem, "]") {
		return ""
	}

	start := strings.LastIndex(stem, "[")
	if start < 0 {
		return ""
	}

	section := stem[start+1 : len(stem)-1]
	tags := make([]rune, 0, len(section))
	for _, r := range section {
		if !IsTag(r) {
			return ""
		}
		tags = append(tags, r)
	}
	return models.NewTagSet(tags...)
}

// DisplayName returns the base filename without its extension.
//
// The bracket section is part of the name, so retagging a file changes its identity.
func DisplayName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsTag reports whether r is a valid playlist tag.
func IsTag(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// TagFromTitle returns the tag a remote playlist title stands for.
//
// Only titles made of exactly one tag are managed.
func TagFromTitle(title string) (rune, bool) {
	runes := []rune(title)
	if len(runes) != 1 || !IsTag(runes[0]) {
		return 0, false
	}
	return runes[0], true
}
