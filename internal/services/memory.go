package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

// InMemoryService implements [Service] against process-local state, used for
// offline development and tests. The contract is functionally identical to
// [YouTubeService]: entries carry distinct resource-binding ids, lookups that
// miss fail with a [RemoteAPIError], list order is insertion order.
type InMemoryService struct {
	mu        sync.Mutex
	playlists []models.Playlist
	items     map[string][]models.Video
}

// NewInMemoryService creates an empty in-memory service.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{items: make(map[string][]models.Video)}
}

// NewSeededService creates an in-memory service populated with fixture
// playlists, mirroring what a development account would look like.
func NewSeededService() *InMemoryService {
	svc := NewInMemoryService()

	favorites := svc.addPlaylist("Mock Favorites", "Fixture playlist 1")
	later := svc.addPlaylist("Mock Watch Later", "Fixture playlist 2")

	svc.addVideo(favorites, "video-1", "Mock Video 1", "Fixture video description 1", "4:13")
	svc.addVideo(favorites, "video-2", "Mock Video 2", "Fixture video description 2", "12:40")
	svc.addVideo(later, "video-3", "Mock Video 3", "Fixture video description 3", "1:02:45")

	return svc
}

// Name returns the service name.
func (s *InMemoryService) Name() string {
	return "Mock"
}

func (s *InMemoryService) addPlaylist(title, description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("mock-%s", uuid.NewString())
	s.playlists = append(s.playlists, models.Playlist{
		ID:          id,
		Title:       title,
		Description: description,
	})
	s.items[id] = []models.Video{}
	return id
}

func (s *InMemoryService) addVideo(playlistID, videoID, title, description, dur string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[playlistID] = append(s.items[playlistID], models.Video{
		ID:           videoID,
		ItemID:       fmt.Sprintf("item-%s", uuid.NewString()),
		Title:        title,
		Description:  description,
		ChannelTitle: "Mock Channel",
		ThumbnailURL: "https://via.placeholder.com/320x180",
		Duration:     dur,
		PublishedAt:  time.Now().Add(-time.Duration(len(s.items[playlistID])+1) * 24 * time.Hour),
	})
	s.bumpCount(playlistID)
}

// bumpCount recomputes the cached item count. Caller holds the lock.
func (s *InMemoryService) bumpCount(playlistID string) {
	for i := range s.playlists {
		if s.playlists[i].ID == playlistID {
			s.playlists[i].ItemCount = len(s.items[playlistID])
			return
		}
	}
}

// ListPlaylists returns all playlists in creation order.
func (s *InMemoryService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Playlist, len(s.playlists))
	copy(out, s.playlists)
	return out, nil
}

// ListPlaylistItems returns the entries of a playlist in insertion order.
func (s *InMemoryService) ListPlaylistItems(ctx context.Context, playlistID string) ([]models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	videos, ok := s.items[playlistID]
	if !ok {
		return nil, NewNotFoundAPIError(fmt.Sprintf("playlist %s not found", playlistID), shared.ErrPlaylistNotFound)
	}

	out := make([]models.Video, len(videos))
	copy(out, videos)
	return out, nil
}

// CreatePlaylist creates a new empty playlist.
func (s *InMemoryService) CreatePlaylist(ctx context.Context, title string) (*models.Playlist, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: playlist title cannot be empty", shared.ErrInvalidArgument)
	}

	id := s.addPlaylist(title, "")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.playlists {
		if p.ID == id {
			playlist := p
			return &playlist, nil
		}
	}
	return nil, NewNotFoundAPIError("playlist vanished after create", shared.ErrPlaylistNotFound)
}

// RenamePlaylist replaces a playlist's title.
func (s *InMemoryService) RenamePlaylist(ctx context.Context, playlistID, title string) error {
	if playlistID == "" || title == "" {
		return fmt.Errorf("%w: playlist id and title are required", shared.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.playlists {
		if s.playlists[i].ID == playlistID {
			s.playlists[i].Title = title
			return nil
		}
	}
	return NewNotFoundAPIError(fmt.Sprintf("playlist %s not found", playlistID), shared.ErrPlaylistNotFound)
}

// DeletePlaylist removes a playlist and its entries.
func (s *InMemoryService) DeletePlaylist(ctx context.Context, playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.playlists {
		if s.playlists[i].ID == playlistID {
			s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
			delete(s.items, playlistID)
			return nil
		}
	}
	return NewNotFoundAPIError(fmt.Sprintf("playlist %s not found", playlistID), shared.ErrPlaylistNotFound)
}

// FindPlaylistItem resolves a video's membership record within a playlist.
func (s *InMemoryService) FindPlaylistItem(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.items[playlistID] {
		if v.ID == videoID {
			video := v
			return &video, nil
		}
	}
	return nil, NewNotFoundAPIError(
		fmt.Sprintf("video %s not found in playlist %s", videoID, playlistID),
		shared.ErrVideoNotFound,
	)
}

// InsertPlaylistItem appends a video to a playlist under a fresh binding id.
func (s *InMemoryService) InsertPlaylistItem(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[playlistID]; !ok {
		return nil, NewNotFoundAPIError(fmt.Sprintf("playlist %s not found", playlistID), shared.ErrPlaylistNotFound)
	}

	video := models.Video{
		ID:           videoID,
		ItemID:       fmt.Sprintf("item-%s", uuid.NewString()),
		ChannelTitle: "Mock Channel",
	}

	// Carry metadata over when the video is known from another playlist,
	// the way the remote service resolves the underlying resource.
	for _, videos := range s.items {
		for _, v := range videos {
			if v.ID == videoID {
				video.Title = v.Title
				video.Description = v.Description
				video.ChannelTitle = v.ChannelTitle
				video.ThumbnailURL = v.ThumbnailURL
				video.Duration = v.Duration
				video.PublishedAt = v.PublishedAt
			}
		}
	}

	s.items[playlistID] = append(s.items[playlistID], video)
	s.bumpCount(playlistID)
	return &video, nil
}

// DeletePlaylistItem removes an entry by its resource-binding id.
func (s *InMemoryService) DeletePlaylistItem(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for playlistID, videos := range s.items {
		for i, v := range videos {
			if v.ItemID == itemID {
				s.items[playlistID] = append(videos[:i], videos[i+1:]...)
				s.bumpCount(playlistID)
				return nil
			}
		}
	}
	return NewNotFoundAPIError(fmt.Sprintf("playlist item %s not found", itemID), shared.ErrVideoNotFound)
}
