package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchUploads Phase = iota
	FetchPlaylists
	FetchPlaylistItems
	Compare
	ApplyOperation
)

func (p Phase) String() string {
	switch p {
	case FetchUploads:
		return "fetch_uploads"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchPlaylistItems:
		return "fetch_playlist_items"
	case Compare:
		return "compare"
	case ApplyOperation:
		return "apply_operation"
	default:
		return ""
	}
}

func fetchUploadsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchUploads,
		Step:    step,
		Total:   total,
		Message: "Fetching uploaded songs...",
	}
}

func fetchPlaylistsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    step,
		Total:   total,
		Message: "Fetching library playlists...",
	}
}

func fetchPlaylistItemsUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylistItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Reading playlist %s...", step, total, title),
	}
}

func compareUpdate(plan *Plan) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Planned %s", plan.Summary()),
		Data:    plan,
	}
}

func applyOperationUpdate(step, total int, op Operation) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyOperation,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, op),
		Data:    op,
	}
}
