// package formatter renders mutation plans and library views to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/desertthunder/ytsync/internal/library"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
)

// Format names accepted by [FormatPlan].
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// FormatPlan renders plan in the named format.
func FormatPlan(plan *tasks.Plan, format string) ([]byte, error) {
	switch format {
	case "", FormatText:
		return PlanToText(plan)
	case FormatJSON:
		return PlanToJSON(plan)
	case FormatMarkdown, "md":
		return PlanToMarkdown(plan)
	case FormatCSV:
		return PlanToCSV(plan)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (use text, json, markdown or csv)", shared.ErrInvalidArgument, format)
	}
}

// PlanToCSV converts a plan to CSV format with columns: Step, Kind, Tag, Track, PlaylistID, TrackID, Path
func PlanToCSV(plan *tasks.Plan) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Step", "Kind", "Tag", "Track", "PlaylistID", "TrackID", "Path"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, op := range plan.Operations {
		record := []string{
			strconv.Itoa(i + 1),
			op.Kind.String(),
			op.Tag,
			op.Track,
			op.PlaylistID,
			op.TrackID,
			op.Path,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlanToMarkdown converts a plan to a Markdown checklist grouped by operation kind
func PlanToMarkdown(plan *tasks.Plan) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Sync plan\n\n")
	buf.WriteString(fmt.Sprintf("**Operations**: %d\n", len(plan.Operations)))
	buf.WriteString(fmt.Sprintf("**Destructive**: %s\n\n", yesNo(plan.Destructive())))

	kind := tasks.OpKind(-1)
	for _, op := range plan.Operations {
		if op.Kind != kind {
			kind = op.Kind
			buf.WriteString(fmt.Sprintf("## %s\n\n", kind))
		}
		buf.WriteString(fmt.Sprintf("- [ ] %s\n", op))
	}

	if len(plan.Unresolved) > 0 {
		buf.WriteString("\n## Unresolved\n\n")
		for _, op := range plan.Unresolved {
			buf.WriteString(fmt.Sprintf("- %s (track not uploaded)\n", op))
		}
	}

	return buf.Bytes(), nil
}

// PlanToText converts a plan to plain text format, one numbered operation per line
func PlanToText(plan *tasks.Plan) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Plan: %s\n", plan.Summary()))
	if !plan.Empty() {
		buf.WriteString("\n")
	}

	for i, op := range plan.Operations {
		marker := " "
		if op.Kind.Destructive() {
			marker = "!"
		}
		buf.WriteString(fmt.Sprintf("%s %3d. %s\n", marker, i+1, op))
	}

	for _, op := range plan.Unresolved {
		buf.WriteString(fmt.Sprintf("  skip %s (track not uploaded)\n", op))
	}

	return buf.Bytes(), nil
}

// PlanToJSON generates an indented JSON representation of the plan
func PlanToJSON(plan *tasks.Plan) ([]byte, error) {
	return shared.MarshalJSON(plan, true)
}

// ScanToText lists local tracks grouped by playlist tag, followed by ignored files and warnings
func ScanToText(scan *library.ScanResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Directory: %s\n", scan.Dir))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n", len(scan.Tracks)))
	buf.WriteString(fmt.Sprintf("Playlists: %s\n\n", tagList(scan.Tags())))

	for i, t := range scan.Tracks {
		tags := "-"
		if !t.Tags.Empty() {
			tags = string(t.Tags)
		}
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, t.Name, tags))
	}

	if len(scan.Ignored) > 0 {
		buf.WriteString(fmt.Sprintf("\nIgnored: %d\n", len(scan.Ignored)))
		for _, name := range scan.Ignored {
			buf.WriteString(fmt.Sprintf("  %s\n", name))
		}
	}

	if len(scan.Warnings) > 0 {
		buf.WriteString("\nWarnings:\n")
		for _, w := range scan.Warnings {
			buf.WriteString(fmt.Sprintf("  %s\n", w))
		}
	}

	return buf.Bytes()
}

// RemoteToText lists managed playlists with their members, then uploads that belong to no playlist
func RemoteToText(view *models.RemoteView) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Uploads: %d\n", len(view.Tracks)))
	buf.WriteString(fmt.Sprintf("Managed playlists: %d\n", len(view.Playlists)))

	for _, pl := range view.Playlists {
		var members []string
		for _, t := range view.Tracks {
			if t.InPlaylist(pl.ID) {
				members = append(members, t.Name)
			}
		}
		sort.Strings(members)

		buf.WriteString(fmt.Sprintf("\n%s (%s, %d tracks)\n", pl.Title, pl.ID, len(members)))
		for _, m := range members {
			buf.WriteString(fmt.Sprintf("  %s\n", m))
		}
	}

	var loose []string
	for _, t := range view.Tracks {
		if len(t.Playlists) == 0 {
			loose = append(loose, t.Name)
		}
	}
	if len(loose) > 0 {
		sort.Strings(loose)
		buf.WriteString("\nNot in any playlist:\n")
		for _, name := range loose {
			buf.WriteString(fmt.Sprintf("  %s\n", name))
		}
	}

	if len(view.Foreign) > 0 {
		buf.WriteString(fmt.Sprintf("\nForeign entries in managed playlists: %d\n", len(view.Foreign)))
	}

	return buf.Bytes()
}

// WritePlan renders plan in the named format and writes it to path.
func WritePlan(plan *tasks.Plan, format, path string) error {
	data, err := FormatPlan(plan, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

func tagList(tags models.TagSet) string {
	if tags.Empty() {
		return "none"
	}
	var buf bytes.Buffer
	for i, t := range tags.Tags() {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteRune(t)
	}
	return buf.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
