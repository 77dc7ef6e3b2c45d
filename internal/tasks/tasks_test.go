package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/services"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/store"
	xtesting "github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/testing"
)

func TestEngineMove(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path runs find, insert, delete in order", func(t *testing.T) {
		var order []string

		svc := xtesting.NewMockService()
		svc.FindPlaylistItemFunc = func(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
			order = append(order, "find")
			if playlistID != "src" || videoID != "vid" {
				t.Errorf("find called with (%s, %s)", playlistID, videoID)
			}
			return &models.Video{ID: "vid", ItemID: "item-src"}, nil
		}
		svc.InsertPlaylistItemFunc = func(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
			order = append(order, "insert")
			if playlistID != "dst" {
				t.Errorf("insert called with playlist %s", playlistID)
			}
			return &models.Video{ID: "vid", ItemID: "item-dst"}, nil
		}
		svc.DeletePlaylistItemFunc = func(ctx context.Context, itemID string) error {
			order = append(order, "delete")
			if itemID != "item-src" {
				t.Errorf("delete called with item %s, want the source entry", itemID)
			}
			return nil
		}

		engine := NewEngine(svc, nil, nil)

		result, err := engine.Move(ctx, "src", "dst", "vid", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(order) != 3 || order[0] != "find" || order[1] != "insert" || order[2] != "delete" {
			t.Errorf("unexpected step order: %v", order)
		}
		if result.Video.ItemID != "item-dst" {
			t.Errorf("expected the target entry in the result, got %s", result.Video.ItemID)
		}
		if result.SourceID != "src" || result.TargetID != "dst" {
			t.Errorf("unexpected result playlists: %+v", result)
		}
	})

	t.Run("missing source video aborts before mutation", func(t *testing.T) {
		svc := xtesting.NewMockService()
		svc.FindPlaylistItemFunc = func(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
			return nil, services.NewNotFoundAPIError("gone", shared.ErrVideoNotFound)
		}

		engine := NewEngine(svc, nil, nil)

		_, err := engine.Move(ctx, "src", "dst", "vid", nil)
		if !errors.Is(err, shared.ErrVideoNotFound) {
			t.Fatalf("expected ErrVideoNotFound, got %v", err)
		}
		if svc.Calls("InsertPlaylistItem") != 0 || svc.Calls("DeletePlaylistItem") != 0 {
			t.Error("expected no mutations after failed lookup")
		}
	})

	t.Run("insert failure leaves source untouched", func(t *testing.T) {
		svc := xtesting.NewMockService()
		svc.InsertPlaylistItemFunc = func(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
			return nil, services.NewRemoteAPIError(500, "quota exceeded")
		}

		engine := NewEngine(svc, nil, nil)

		_, err := engine.Move(ctx, "src", "dst", "vid", nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if svc.Calls("DeletePlaylistItem") != 0 {
			t.Error("expected no delete after failed insert")
		}
	})

	t.Run("delete failure surfaces a partial move", func(t *testing.T) {
		svc := xtesting.NewMockService()
		svc.InsertPlaylistItemFunc = func(ctx context.Context, playlistID, videoID string) (*models.Video, error) {
			return &models.Video{ID: videoID, ItemID: "item-dst"}, nil
		}
		svc.DeletePlaylistItemFunc = func(ctx context.Context, itemID string) error {
			return services.NewRemoteAPIError(500, "backend error")
		}

		engine := NewEngine(svc, nil, nil)

		_, err := engine.Move(ctx, "src", "dst", "vid", nil)
		if !errors.Is(err, shared.ErrPartialMove) {
			t.Fatalf("expected ErrPartialMove, got %v", err)
		}

		var partial *PartialMoveError
		if !errors.As(err, &partial) {
			t.Fatal("expected a *PartialMoveError")
		}
		if partial.VideoID != "vid" || partial.SourceID != "src" || partial.TargetID != "dst" {
			t.Errorf("unexpected partial move details: %+v", partial)
		}
		if partial.InsertedItemID != "item-dst" {
			t.Errorf("expected the inserted entry id for cleanup, got %s", partial.InsertedItemID)
		}
		if partial.Cause() == nil {
			t.Error("expected the delete failure as cause")
		}
	})

	t.Run("rejects same source and target", func(t *testing.T) {
		svc := xtesting.NewMockService()
		engine := NewEngine(svc, nil, nil)

		_, err := engine.Move(ctx, "same", "same", "vid", nil)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if svc.Calls("FindPlaylistItem") != 0 {
			t.Error("expected no service calls for invalid input")
		}
	})

	t.Run("rejects missing ids", func(t *testing.T) {
		engine := NewEngine(xtesting.NewMockService(), nil, nil)
		if _, err := engine.Move(ctx, "", "dst", "vid", nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("emits progress updates for each step", func(t *testing.T) {
		engine := NewEngine(xtesting.NewMockService(), nil, nil)

		progress := make(chan ProgressUpdate, 8)
		if _, err := engine.Move(ctx, "src", "dst", "vid", progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) != 3 || phases[0] != ResolveSource || phases[1] != InsertTarget || phases[2] != DeleteSource {
			t.Errorf("unexpected progress phases: %v", phases)
		}
	})

	t.Run("invalidates both playlists after a move", func(t *testing.T) {
		svc := xtesting.NewMockService()
		svc.ListPlaylistItemsFunc = func(ctx context.Context, playlistID string) ([]models.Video, error) {
			return []models.Video{}, nil
		}

		cache := store.New(svc, nil)
		if _, err := cache.PlaylistVideos(ctx, "src"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := cache.PlaylistVideos(ctx, "dst"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := cache.Playlists(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		engine := NewEngine(svc, cache, nil)
		if _, err := engine.Move(ctx, "src", "dst", "vid", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		waitFor(t, func() bool {
			return svc.Calls("ListPlaylistItems") == 4 && svc.Calls("ListPlaylists") == 2
		}, "expected both playlists and the collection to be refetched")
	})
}

func TestEnginePlaylistOps(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatePlaylist invalidates the collection", func(t *testing.T) {
		svc := xtesting.NewMockService()
		cache := store.New(svc, nil)
		if _, err := cache.Playlists(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		engine := NewEngine(svc, cache, nil)

		playlist, err := engine.CreatePlaylist(ctx, "New Mix", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.Title != "New Mix" {
			t.Errorf("expected title 'New Mix', got %s", playlist.Title)
		}

		waitFor(t, func() bool { return svc.Calls("ListPlaylists") == 2 },
			"expected the playlist collection to be refetched")
	})

	t.Run("RenamePlaylist propagates service errors", func(t *testing.T) {
		svc := xtesting.NewMockService()
		svc.RenamePlaylistFunc = func(ctx context.Context, playlistID, title string) error {
			return services.NewAuthAPIError(401, "expired")
		}

		engine := NewEngine(svc, nil, nil)
		if err := engine.RenamePlaylist(ctx, "PL1", "X", nil); !errors.Is(err, shared.ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("DeletePlaylist drops the cached contents", func(t *testing.T) {
		svc := xtesting.NewMockService()
		cache := store.New(svc, nil)
		if _, err := cache.PlaylistVideos(ctx, "PL1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		before := svc.Calls("ListPlaylistItems")

		engine := NewEngine(svc, cache, nil)
		if err := engine.DeletePlaylist(ctx, "PL1", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		time.Sleep(50 * time.Millisecond)
		if got := svc.Calls("ListPlaylistItems"); got != before {
			t.Errorf("expected no refetch of a deleted playlist, got %d extra calls", got-before)
		}
	})

	t.Run("nil service is rejected", func(t *testing.T) {
		engine := NewEngine(nil, nil, nil)
		if _, err := engine.Move(ctx, "a", "b", "v", nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected ErrServiceUnavailable, got %v", err)
		}
		if _, err := engine.CreatePlaylist(ctx, "t", nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func waitFor(t *testing.T, cond func() bool, msg string) {
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
