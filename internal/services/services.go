// package services defines interface Service for the remote playlist hosting API
//
// YouTube Data API v3 (real), in-memory fixtures (mock)
package services

import (
	"context"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
)

// Service is the capability surface of the video hosting API.
//
// Implementations are selected at construction time ([YouTubeService] for the
// real API, [InMemoryService] for offline development) and share a
// functionally identical contract. List operations return sequences in server
// response order; no retries are performed, the caller decides.
type Service interface {
	// ListPlaylists retrieves all playlists owned by the authenticated user.
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)

	// ListPlaylistItems retrieves the entries of a playlist.
	ListPlaylistItems(ctx context.Context, playlistID string) ([]models.Video, error)

	// CreatePlaylist creates a new private playlist with the given title.
	CreatePlaylist(ctx context.Context, title string) (*models.Playlist, error)

	// RenamePlaylist replaces the title of an existing playlist.
	RenamePlaylist(ctx context.Context, playlistID, title string) error

	// DeletePlaylist removes a playlist and all of its entries.
	DeletePlaylist(ctx context.Context, playlistID string) error

	// FindPlaylistItem resolves the resource-binding id of a video's
	// membership record within a playlist.
	FindPlaylistItem(ctx context.Context, playlistID, videoID string) (*models.Video, error)

	// InsertPlaylistItem adds a video to the end of a playlist and returns
	// the created entry.
	InsertPlaylistItem(ctx context.Context, playlistID, videoID string) (*models.Video, error)

	// DeletePlaylistItem removes a playlist entry by its resource-binding id.
	DeletePlaylistItem(ctx context.Context, itemID string) error

	// Name returns the name of the backing service (e.g. "YouTube", "Mock")
	Name() string
}
