package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/services"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/store"
)

// MoveResult contains the outcome of a completed video move.
type MoveResult struct {
	Video    *models.Video // Entry created in the target playlist
	SourceID string        // Playlist the video was removed from
	TargetID string        // Playlist the video was added to
}

// Engine orchestrates playlist mutations and keeps the query cache honest.
type Engine struct {
	svc    services.Service
	cache  *store.Store
	logger *log.Logger
}

// NewEngine creates an Engine over the given service and cache.
func NewEngine(svc services.Service, cache *store.Store, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{svc: svc, cache: cache, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Move transfers a video between playlists in three steps: resolve the
// source entry, insert into the target, delete from the source.
//
// A failure in the first two steps leaves both playlists unchanged. A
// failure in the delete step returns a [*PartialMoveError]; the video is in
// both playlists and no rollback is attempted. Caches for both playlists and
// the playlist collection are invalidated after any step that mutated remote
// state.
func (e *Engine) Move(ctx context.Context, sourceID, targetID, videoID string, progress chan<- ProgressUpdate) (*MoveResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if sourceID == "" || targetID == "" || videoID == "" {
		return nil, fmt.Errorf("%w: source, target and video ids are required", shared.ErrInvalidArgument)
	}
	if sourceID == targetID {
		return nil, fmt.Errorf("%w: source and target playlists are the same", shared.ErrInvalidArgument)
	}

	e.sendProgress(progress, resolveSourceUpdate(videoID, sourceID))

	item, err := e.svc.FindPlaylistItem(ctx, sourceID, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to locate video in source playlist: %w", err)
	}

	e.sendProgress(progress, insertTargetUpdate(videoID, targetID))

	inserted, err := e.svc.InsertPlaylistItem(ctx, targetID, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to add video to target playlist: %w", err)
	}

	e.sendProgress(progress, deleteSourceUpdate(item))

	if err := e.svc.DeletePlaylistItem(ctx, item.ItemID); err != nil {
		e.invalidateMove(sourceID, targetID)
		e.logger.Error("move left video in both playlists",
			"video", videoID, "source", sourceID, "target", targetID, "error", err)
		return nil, &PartialMoveError{
			VideoID:        videoID,
			SourceID:       sourceID,
			TargetID:       targetID,
			InsertedItemID: inserted.ItemID,
			err:            err,
		}
	}

	e.invalidateMove(sourceID, targetID)

	return &MoveResult{Video: inserted, SourceID: sourceID, TargetID: targetID}, nil
}

// CreatePlaylist creates a playlist and invalidates the playlist collection.
func (e *Engine) CreatePlaylist(ctx context.Context, title string, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, createPlaylistUpdate(title))

	playlist, err := e.svc.CreatePlaylist(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	if e.cache != nil {
		e.cache.InvalidatePlaylists()
	}
	return playlist, nil
}

// RenamePlaylist renames a playlist and invalidates the playlist collection.
func (e *Engine) RenamePlaylist(ctx context.Context, playlistID, title string, progress chan<- ProgressUpdate) error {
	if e.svc == nil {
		return fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, renamePlaylistUpdate(playlistID, title))

	if err := e.svc.RenamePlaylist(ctx, playlistID, title); err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}

	if e.cache != nil {
		e.cache.InvalidatePlaylists()
	}
	return nil
}

// DeletePlaylist deletes a playlist, invalidating the collection and the
// deleted playlist's cached contents.
func (e *Engine) DeletePlaylist(ctx context.Context, playlistID string, progress chan<- ProgressUpdate) error {
	if e.svc == nil {
		return fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, deletePlaylistUpdate(playlistID))

	if err := e.svc.DeletePlaylist(ctx, playlistID); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	if e.cache != nil {
		e.cache.InvalidatePlaylists()
		e.cache.Drop(playlistID)
	}
	return nil
}

// invalidateMove refreshes everything a move touches: both playlists'
// contents plus the collection, whose item counts changed.
func (e *Engine) invalidateMove(sourceID, targetID string) {
	if e.cache == nil {
		return
	}
	e.cache.InvalidatePlaylistVideos(sourceID)
	e.cache.InvalidatePlaylistVideos(targetID)
	e.cache.InvalidatePlaylists()
}
