package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	xtesting "github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/testing"
)

// eventually polls until the condition holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Playlists reads through and caches", func(t *testing.T) {
		svc := xtesting.NewMockService()
		svc.ListPlaylistsFunc = func(ctx context.Context) ([]models.Playlist, error) {
			return []models.Playlist{{ID: "PL1", Title: "One"}}, nil
		}

		s := New(svc, nil)

		first, err := s.Playlists(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(first) != 1 || first[0].ID != "PL1" {
			t.Fatalf("unexpected playlists: %v", first)
		}

		if _, err := s.Playlists(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := svc.Calls("ListPlaylists"); got != 1 {
			t.Errorf("expected 1 upstream call, got %d", got)
		}
	})

	t.Run("fetch errors are not cached", func(t *testing.T) {
		svc := xtesting.NewMockService()
		fail := true
		svc.ListPlaylistsFunc = func(ctx context.Context) ([]models.Playlist, error) {
			if fail {
				return nil, errors.New("upstream down")
			}
			return []models.Playlist{{ID: "PL1"}}, nil
		}

		s := New(svc, nil)

		if _, err := s.Playlists(ctx); err == nil {
			t.Fatal("expected error from first fetch")
		}

		fail = false
		playlists, err := s.Playlists(ctx)
		if err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if len(playlists) != 1 {
			t.Fatalf("expected 1 playlist, got %d", len(playlists))
		}
	})

	t.Run("concurrent misses collapse into one fetch", func(t *testing.T) {
		release := make(chan struct{})
		svc := xtesting.NewMockService()
		svc.ListPlaylistsFunc = func(ctx context.Context) ([]models.Playlist, error) {
			<-release
			return []models.Playlist{{ID: "PL1"}}, nil
		}

		s := New(svc, nil)

		var started, done sync.WaitGroup
		for range 5 {
			started.Add(1)
			done.Add(1)
			go func() {
				started.Done()
				defer done.Done()
				if _, err := s.Playlists(ctx); err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			}()
		}

		started.Wait()
		time.Sleep(50 * time.Millisecond)
		close(release)
		done.Wait()

		if got := svc.Calls("ListPlaylists"); got != 1 {
			t.Errorf("expected concurrent reads to collapse to 1 call, got %d", got)
		}
	})

	t.Run("InvalidatePlaylists refetches observed entry", func(t *testing.T) {
		var mu sync.Mutex
		titles := []string{"Before"}

		svc := xtesting.NewMockService()
		svc.ListPlaylistsFunc = func(ctx context.Context) ([]models.Playlist, error) {
			mu.Lock()
			defer mu.Unlock()
			return []models.Playlist{{ID: "PL1", Title: titles[len(titles)-1]}}, nil
		}

		s := New(svc, nil)
		if _, err := s.Playlists(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		mu.Lock()
		titles = append(titles, "After")
		mu.Unlock()

		s.InvalidatePlaylists()

		eventually(t, func() bool { return svc.Calls("ListPlaylists") == 2 },
			"expected a background refetch after invalidation")
		eventually(t, func() bool {
			playlists, err := s.Playlists(ctx)
			return err == nil && len(playlists) == 1 && playlists[0].Title == "After"
		}, "expected refreshed data after invalidation")
	})

	t.Run("invalidating an unobserved entry does not fetch", func(t *testing.T) {
		svc := xtesting.NewMockService()
		s := New(svc, nil)

		s.InvalidatePlaylists()
		s.InvalidatePlaylistVideos("PL1")

		time.Sleep(50 * time.Millisecond)
		if got := svc.Calls("ListPlaylists"); got != 0 {
			t.Errorf("expected no fetches for unobserved playlists, got %d", got)
		}
		if got := svc.Calls("ListPlaylistItems"); got != 0 {
			t.Errorf("expected no fetches for unobserved videos, got %d", got)
		}
	})

	t.Run("InvalidatePlaylistVideos is scoped to one playlist", func(t *testing.T) {
		svc := xtesting.NewMockService()
		svc.ListPlaylistItemsFunc = func(ctx context.Context, playlistID string) ([]models.Video, error) {
			return []models.Video{{ID: "vid-" + playlistID}}, nil
		}

		s := New(svc, nil)
		if _, err := s.PlaylistVideos(ctx, "PL1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := s.PlaylistVideos(ctx, "PL2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		s.InvalidatePlaylistVideos("PL1")

		eventually(t, func() bool { return svc.Calls("ListPlaylistItems") == 3 },
			"expected exactly one background refetch")

		// PL2 stays cached.
		if _, err := s.PlaylistVideos(ctx, "PL2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := svc.Calls("ListPlaylistItems"); got != 3 {
			t.Errorf("expected PL2 to be served from cache, got %d calls", got)
		}
	})

	t.Run("InvalidateAll refetches every observed entry", func(t *testing.T) {
		svc := xtesting.NewMockService()
		s := New(svc, nil)

		if _, err := s.Playlists(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := s.PlaylistVideos(ctx, "PL1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		s.InvalidateAll()

		eventually(t, func() bool {
			return svc.Calls("ListPlaylists") == 2 && svc.Calls("ListPlaylistItems") == 2
		}, "expected background refetches for playlists and videos")
	})

	t.Run("PlaylistVideos requires an id", func(t *testing.T) {
		s := New(xtesting.NewMockService(), nil)
		if _, err := s.PlaylistVideos(ctx, ""); err == nil {
			t.Fatal("expected error for empty playlist id")
		}
	})

	t.Run("Reset swaps the service and drops state", func(t *testing.T) {
		oldSvc := xtesting.NewMockService()
		oldSvc.ListPlaylistsFunc = func(ctx context.Context) ([]models.Playlist, error) {
			return []models.Playlist{{ID: "old"}}, nil
		}

		s := New(oldSvc, nil)
		if _, err := s.Playlists(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		newSvc := xtesting.NewMockService()
		newSvc.ListPlaylistsFunc = func(ctx context.Context) ([]models.Playlist, error) {
			return []models.Playlist{{ID: "new"}}, nil
		}

		s.Reset(newSvc)

		playlists, err := s.Playlists(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlists[0].ID != "new" {
			t.Errorf("expected data from the new service, got %s", playlists[0].ID)
		}
		if got := oldSvc.Calls("ListPlaylists"); got != 1 {
			t.Errorf("expected old service untouched after reset, got %d calls", got)
		}
	})
}
