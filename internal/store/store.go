// Package store caches playlist reads in front of a [services.Service].
//
// Reads are served from cache while fresh. Invalidation marks entries stale
// and kicks off a background refetch for entries that have been observed at
// least once, so the UI sees updated data without issuing its own reload.
// Concurrent fetches of the same key collapse into a single upstream call.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/services"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

// videoEntry caches the contents of one playlist.
type videoEntry struct {
	videos   []models.Video
	valid    bool
	observed bool
}

// Store is a read-through cache over a [services.Service].
type Store struct {
	mu     sync.Mutex
	svc    services.Service
	logger *log.Logger
	group  singleflight.Group

	playlists         []models.Playlist
	playlistsValid    bool
	playlistsObserved bool

	videos map[string]*videoEntry
}

// New creates a Store backed by the given service.
func New(svc services.Service, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		svc:    svc,
		logger: logger,
		videos: make(map[string]*videoEntry),
	}
}

// Playlists returns the playlist collection, fetching from the service when
// the cached copy is missing or stale.
func (s *Store) Playlists(ctx context.Context) ([]models.Playlist, error) {
	s.mu.Lock()
	if s.playlistsValid {
		out := make([]models.Playlist, len(s.playlists))
		copy(out, s.playlists)
		s.mu.Unlock()
		return out, nil
	}
	svc := s.svc
	s.mu.Unlock()

	result, err, _ := s.group.Do("playlists", func() (any, error) {
		playlists, err := svc.ListPlaylists(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		// A Reset while the fetch was in flight retires this result.
		if s.svc == svc {
			s.playlists = playlists
			s.playlistsValid = true
			s.playlistsObserved = true
		}
		s.mu.Unlock()
		return playlists, nil
	})
	if err != nil {
		return nil, err
	}

	playlists := result.([]models.Playlist)
	out := make([]models.Playlist, len(playlists))
	copy(out, playlists)
	return out, nil
}

// PlaylistVideos returns the entries of one playlist, fetching when the
// cached copy is missing or stale.
func (s *Store) PlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidArgument)
	}

	s.mu.Lock()
	if entry, ok := s.videos[playlistID]; ok && entry.valid {
		out := make([]models.Video, len(entry.videos))
		copy(out, entry.videos)
		s.mu.Unlock()
		return out, nil
	}
	svc := s.svc
	s.mu.Unlock()

	result, err, _ := s.group.Do("videos:"+playlistID, func() (any, error) {
		videos, err := svc.ListPlaylistItems(ctx, playlistID)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.svc == svc {
			s.videos[playlistID] = &videoEntry{videos: videos, valid: true, observed: true}
		}
		s.mu.Unlock()
		return videos, nil
	})
	if err != nil {
		return nil, err
	}

	videos := result.([]models.Video)
	out := make([]models.Video, len(videos))
	copy(out, videos)
	return out, nil
}

// InvalidatePlaylists marks the playlist collection stale. If it has been
// observed, a background refetch repopulates it.
func (s *Store) InvalidatePlaylists() {
	s.mu.Lock()
	s.playlistsValid = false
	observed := s.playlistsObserved
	s.mu.Unlock()

	if observed {
		go s.refetchPlaylists()
	}
}

// InvalidatePlaylistVideos marks one playlist's contents stale. If the
// playlist has been observed, a background refetch repopulates it.
func (s *Store) InvalidatePlaylistVideos(playlistID string) {
	s.mu.Lock()
	entry, ok := s.videos[playlistID]
	if ok {
		entry.valid = false
	}
	observed := ok && entry.observed
	s.mu.Unlock()

	if observed {
		go s.refetchVideos(playlistID)
	}
}

// InvalidateAll marks every cached entry stale, refetching the observed ones.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	s.playlistsValid = false
	playlistsObserved := s.playlistsObserved

	var observedIDs []string
	for id, entry := range s.videos {
		entry.valid = false
		if entry.observed {
			observedIDs = append(observedIDs, id)
		}
	}
	s.mu.Unlock()

	if playlistsObserved {
		go s.refetchPlaylists()
	}
	for _, id := range observedIDs {
		go s.refetchVideos(id)
	}
}

// Drop removes a playlist's cached contents entirely, with no refetch. Used
// when the playlist itself is gone.
func (s *Store) Drop(playlistID string) {
	s.mu.Lock()
	delete(s.videos, playlistID)
	s.mu.Unlock()
}

// Reset swaps the backing service and drops all cached state, including
// observation history. Used when credentials change.
func (s *Store) Reset(svc services.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.svc = svc
	s.playlists = nil
	s.playlistsValid = false
	s.playlistsObserved = false
	s.videos = make(map[string]*videoEntry)
}

// Background refetch failures are logged and dropped; the entry stays stale
// and the next read retries.
func (s *Store) refetchPlaylists() {
	if _, err := s.Playlists(context.Background()); err != nil {
		s.logger.Warn("background playlist refetch failed", "error", err)
	}
}

func (s *Store) refetchVideos(playlistID string) {
	if _, err := s.PlaylistVideos(context.Background(), playlistID); err != nil {
		s.logger.Warn("background video refetch failed", "playlist", playlistID, "error", err)
	}
}
