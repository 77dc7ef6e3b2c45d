package tasks

import (
	"fmt"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

// PartialMoveError reports a move that inserted the video into the target
// playlist but failed to remove it from the source, leaving it in both.
// There is no automatic rollback; the caller surfaces this for manual
// cleanup. Wraps [shared.ErrPartialMove].
type PartialMoveError struct {
	VideoID        string
	SourceID       string
	TargetID       string
	InsertedItemID string
	err            error
}

func (e *PartialMoveError) Error() string {
	return fmt.Sprintf(
		"video %s was added to %s but could not be removed from %s: %v",
		e.VideoID, e.TargetID, e.SourceID, e.err,
	)
}

func (e *PartialMoveError) Unwrap() error {
	return shared.ErrPartialMove
}

// Cause returns the delete failure that left the move incomplete.
func (e *PartialMoveError) Cause() error {
	return e.err
}
