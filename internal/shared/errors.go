package shared

import (
	"fmt"
	"strings"
)

var (
	// Configuration errors
	ErrMissingConfig   = fmt.Errorf("configuration not found")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrDuplicateTrack  = fmt.Errorf("duplicate track name")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidInput    = fmt.Errorf("invalid input")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// ErrAborted is returned when the user declines to apply a plan.
	ErrAborted = fmt.Errorf("aborted by user")
)

// DuplicateTrackError reports local files that resolve to the same display name.
//
// Remote tracks are matched by name, so the local view must not contain collisions.
type DuplicateTrackError struct {
	Name  string
	Paths []string
}

func (e *DuplicateTrackError) Error() string {
	return fmt.Sprintf("%v: %q is used by %s", ErrDuplicateTrack, e.Name, strings.Join(e.Paths, ", "))
}

func (e *DuplicateTrackError) Is(target error) bool {
	return target == ErrDuplicateTrack || target == ErrInvalidConfig
}
