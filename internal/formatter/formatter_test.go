package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytsync/internal/library"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	th "github.com/desertthunder/ytsync/internal/testing"
)

func testPlan() *tasks.Plan {
	return &tasks.Plan{
		Operations: []tasks.Operation{
			{Kind: tasks.DeletePlaylist, Tag: "z", PlaylistID: "PLz"},
			{Kind: tasks.CreatePlaylist, Tag: "x"},
			{Kind: tasks.UploadTrack, Track: "a [x]", Path: "/music/a [x].mp3"},
			{Kind: tasks.AddMembership, Tag: "x", Track: "a [x]"},
		},
		Unresolved: []tasks.Operation{
			{Kind: tasks.AddMembership, Tag: "y", Track: "b [y]"},
		},
	}
}

func TestFormatters(t *testing.T) {
	t.Run("PlanToCSV", func(t *testing.T) {
		data, err := PlanToCSV(testPlan())
		if err != nil {
			t.Fatalf("PlanToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Step,Kind,Tag,Track,PlaylistID,TrackID,Path\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,delete_playlist,z,,PLz,,") {
			t.Errorf("CSV missing delete row, got: %s", output)
		}
		if !strings.Contains(output, "3,upload_track,,a [x],,,/music/a [x].mp3") {
			t.Errorf("CSV missing upload row, got: %s", output)
		}
		if lines := strings.Count(output, "\n"); lines != 5 {
			t.Errorf("expected 5 lines, got %d", lines)
		}
	})

	t.Run("PlanToMarkdown", func(t *testing.T) {
		data, err := PlanToMarkdown(testPlan())
		if err != nil {
			t.Fatalf("PlanToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Sync plan",
			"**Operations**: 4",
			"**Destructive**: yes",
			"## delete_playlist",
			"- [ ] create playlist x",
			`- [ ] add "a [x]" to x`,
			"## Unresolved",
			`add "b [y]" to y (track not uploaded)`,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("PlanToText", func(t *testing.T) {
		data, err := PlanToText(testPlan())
		if err != nil {
			t.Fatalf("PlanToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Plan: 1 delete_playlist, 1 create_playlist, 1 upload_track, 1 add_membership\n") {
			t.Errorf("Text missing summary, got:\n%s", output)
		}
		if !strings.Contains(output, "!   1. delete playlist z") {
			t.Errorf("expected destructive marker, got:\n%s", output)
		}
		if !strings.Contains(output, `    2. create playlist x`) {
			t.Errorf("expected plain create line, got:\n%s", output)
		}
		if !strings.Contains(output, "skip add") {
			t.Errorf("expected unresolved line, got:\n%s", output)
		}

		empty, _ := PlanToText(&tasks.Plan{})
		if string(empty) != "Plan: nothing to do\n" {
			t.Errorf("unexpected empty plan output %q", empty)
		}
	})

	t.Run("PlanToJSON", func(t *testing.T) {
		data, err := PlanToJSON(testPlan())
		if err != nil {
			t.Fatalf("PlanToJSON failed: %v", err)
		}

		var decoded struct {
			Operations []map[string]any `json:"operations"`
			Unresolved []map[string]any `json:"unresolved"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Operations) != 4 || decoded.Operations[0]["kind"] != "delete_playlist" {
			t.Errorf("unexpected operations %v", decoded.Operations)
		}
		if len(decoded.Unresolved) != 1 {
			t.Errorf("expected 1 unresolved op, got %d", len(decoded.Unresolved))
		}
	})

	t.Run("FormatPlan", func(t *testing.T) {
		for _, format := range []string{"", FormatText, FormatJSON, FormatMarkdown, "md", FormatCSV} {
			if _, err := FormatPlan(testPlan(), format); err != nil {
				t.Errorf("FormatPlan(%q) error = %v", format, err)
			}
		}
		if _, err := FormatPlan(testPlan(), "yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("WritePlan", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plan.csv")
		if err := WritePlan(testPlan(), FormatCSV, path); err != nil {
			t.Fatalf("WritePlan failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "create_playlist") {
			t.Errorf("unexpected file content %s", content)
		}

		if err := WritePlan(testPlan(), FormatCSV, filepath.Join(t.TempDir(), "missing", "plan.csv")); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

func TestViews(t *testing.T) {
	t.Run("ScanToText", func(t *testing.T) {
		scan := &library.ScanResult{
			Dir: "/music",
			Tracks: []models.LocalTrack{
				{Name: "a [x]", Tags: "x"},
				{Name: "b", Tags: ""},
			},
			Ignored:  []string{"cover.jpg"},
			Warnings: []string{"a [x].mp3: embedded title differs"},
		}

		output := string(ScanToText(scan))
		for _, want := range []string{"Tracks: 2", "Playlists: x", "1. a [x] [x]", "2. b [-]", "Ignored: 1", "cover.jpg", "embedded title differs"} {
			if !strings.Contains(output, want) {
				t.Errorf("scan output missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("RemoteToText", func(t *testing.T) {
		view := &models.RemoteView{
			Tracks: []models.RemoteTrack{
				{ID: "v1", Name: "b [x]", Playlists: map[string]string{"PLx": "s1"}},
				{ID: "v2", Name: "a [x]", Playlists: map[string]string{"PLx": "s2"}},
				{ID: "v3", Name: "loose"},
			},
			Playlists: []models.Playlist{{ID: "PLx", Title: "x", Tag: 'x'}},
			Foreign:   []models.PlaylistItem{{PlaylistID: "PLx", VideoID: "r"}},
		}

		output := string(RemoteToText(view))
		for _, want := range []string{"Uploads: 3", "Managed playlists: 1", "x (PLx, 2 tracks)\n  a [x]\n  b [x]", "Not in any playlist:\n  loose", "Foreign entries in managed playlists: 1"} {
			if !strings.Contains(output, want) {
				t.Errorf("remote output missing %q, got:\n%s", want, output)
			}
		}
	})
}
