package tasks

import (
	"fmt"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
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
	ResolveSource Phase = iota
	InsertTarget
	DeleteSource
	CreatePlaylist
	RenamePlaylist
	DeletePlaylist
	RefreshCache
)

func (p Phase) String() string {
	switch p {
	case ResolveSource:
		return "resolve_source"
	case InsertTarget:
		return "insert_target"
	case DeleteSource:
		return "delete_source"
	case CreatePlaylist:
		return "create_playlist"
	case RenamePlaylist:
		return "rename_playlist"
	case DeletePlaylist:
		return "delete_playlist"
	case RefreshCache:
		return "refresh_cache"
	default:
		return ""
	}
}

func resolveSourceUpdate(videoID, playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSource,
		Step:    1,
		Total:   3,
		Message: fmt.Sprintf("Locating %s in source playlist %s...", videoID, playlistID),
	}
}

func insertTargetUpdate(videoID, playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   InsertTarget,
		Step:    2,
		Total:   3,
		Message: fmt.Sprintf("Adding %s to playlist %s...", videoID, playlistID),
	}
}

func deleteSourceUpdate(video *models.Video) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeleteSource,
		Step:    3,
		Total:   3,
		Message: fmt.Sprintf("Removing %s from source playlist...", video.Title),
		Data:    video,
	}
}

func createPlaylistUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", title),
	}
}

func renamePlaylistUpdate(playlistID, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RenamePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Renaming playlist %s to %q...", playlistID, title),
	}
}

func deletePlaylistUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeletePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Deleting playlist %s...", playlistID),
	}
}
