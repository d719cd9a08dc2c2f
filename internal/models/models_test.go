package models

import "testing"

func TestTagSet(t *testing.T) {
	s := NewTagSet('d', 'a', 'd')
	if s != "ad" {
		t.Fatalf("NewTagSet() = %q, want ad", s)
	}

	if !s.Contains('a') || s.Contains('b') {
		t.Errorf("Contains() gave unexpected result for %q", s)
	}

	if got := s.Union(NewTagSet('b', 'a')); got != "abd" {
		t.Errorf("Union() = %q, want abd", got)
	}

	if NewTagSet().Empty() != true {
		t.Error("expected empty set")
	}

	if tags := s.Tags(); len(tags) != 2 || tags[0] != 'a' || tags[1] != 'd' {
		t.Errorf("Tags() = %v", tags)
	}
}

func TestPlaylistManaged(t *testing.T) {
	if (Playlist{Title: "Road Trip"}).Managed() {
		t.Error("untagged playlist reported as managed")
	}
	if !(Playlist{Title: "a", Tag: 'a'}).Managed() {
		t.Error("tagged playlist reported as unmanaged")
	}
}
