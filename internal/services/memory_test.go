package services

import (
	"context"
	"errors"
	"testing"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

func TestInMemoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("Name", func(t *testing.T) {
		if svc := NewInMemoryService(); svc.Name() != "Mock" {
			t.Errorf("expected name 'Mock', got %s", svc.Name())
		}
	})

	t.Run("seeded fixtures", func(t *testing.T) {
		svc := NewSeededService()

		playlists, err := svc.ListPlaylists(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(playlists))
		}
		if playlists[0].Title != "Mock Favorites" {
			t.Errorf("expected 'Mock Favorites', got %s", playlists[0].Title)
		}
		if playlists[0].ItemCount != 2 {
			t.Errorf("expected 2 items in first playlist, got %d", playlists[0].ItemCount)
		}

		videos, err := svc.ListPlaylistItems(ctx, playlists[0].ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(videos) != 2 {
			t.Fatalf("expected 2 videos, got %d", len(videos))
		}
		if videos[0].ItemID == "" || videos[0].ItemID == videos[1].ItemID {
			t.Error("expected distinct non-empty item ids")
		}
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		svc := NewInMemoryService()

		playlist, err := svc.CreatePlaylist(ctx, "Road Trip")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.Title != "Road Trip" {
			t.Errorf("expected title 'Road Trip', got %s", playlist.Title)
		}

		videos, err := svc.ListPlaylistItems(ctx, playlist.ID)
		if err != nil {
			t.Fatalf("expected new playlist to be listable, got %v", err)
		}
		if len(videos) != 0 {
			t.Errorf("expected empty playlist, got %d videos", len(videos))
		}

		if _, err := svc.CreatePlaylist(ctx, ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("RenamePlaylist", func(t *testing.T) {
		svc := NewInMemoryService()
		playlist, _ := svc.CreatePlaylist(ctx, "Before")

		if err := svc.RenamePlaylist(ctx, playlist.ID, "After"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		playlists, _ := svc.ListPlaylists(ctx)
		if playlists[0].Title != "After" {
			t.Errorf("expected renamed title 'After', got %s", playlists[0].Title)
		}

		if err := svc.RenamePlaylist(ctx, "missing", "X"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("DeletePlaylist", func(t *testing.T) {
		svc := NewSeededService()
		playlists, _ := svc.ListPlaylists(ctx)

		if err := svc.DeletePlaylist(ctx, playlists[0].ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		remaining, _ := svc.ListPlaylists(ctx)
		if len(remaining) != 1 {
			t.Fatalf("expected 1 playlist left, got %d", len(remaining))
		}
		if _, err := svc.ListPlaylistItems(ctx, playlists[0].ID); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Fatalf("expected ErrPlaylistNotFound after delete, got %v", err)
		}
	})

	t.Run("move primitives", func(t *testing.T) {
		svc := NewSeededService()
		playlists, _ := svc.ListPlaylists(ctx)
		source, target := playlists[0], playlists[1]

		sourceVideos, _ := svc.ListPlaylistItems(ctx, source.ID)
		moving := sourceVideos[0]

		found, err := svc.FindPlaylistItem(ctx, source.ID, moving.ID)
		if err != nil {
			t.Fatalf("expected to find item, got %v", err)
		}
		if found.ItemID != moving.ItemID {
			t.Errorf("expected item id %s, got %s", moving.ItemID, found.ItemID)
		}

		inserted, err := svc.InsertPlaylistItem(ctx, target.ID, moving.ID)
		if err != nil {
			t.Fatalf("expected insert to succeed, got %v", err)
		}
		if inserted.ItemID == moving.ItemID {
			t.Error("expected a fresh binding id on insert")
		}
		if inserted.Title != moving.Title {
			t.Errorf("expected metadata carry-over, got title %q", inserted.Title)
		}

		if err := svc.DeletePlaylistItem(ctx, moving.ItemID); err != nil {
			t.Fatalf("expected delete to succeed, got %v", err)
		}

		after, _ := svc.ListPlaylistItems(ctx, source.ID)
		if len(after) != len(sourceVideos)-1 {
			t.Errorf("expected source to shrink to %d, got %d", len(sourceVideos)-1, len(after))
		}

		targetVideos, _ := svc.ListPlaylistItems(ctx, target.ID)
		if targetVideos[len(targetVideos)-1].ID != moving.ID {
			t.Error("expected moved video appended to target")
		}

		if _, err := svc.FindPlaylistItem(ctx, source.ID, moving.ID); !errors.Is(err, shared.ErrVideoNotFound) {
			t.Fatalf("expected ErrVideoNotFound after move, got %v", err)
		}
	})

	t.Run("DeletePlaylistItem unknown id", func(t *testing.T) {
		svc := NewSeededService()
		if err := svc.DeletePlaylistItem(ctx, "item-ghost"); !errors.Is(err, shared.ErrVideoNotFound) {
			t.Fatalf("expected ErrVideoNotFound, got %v", err)
		}
	})
}
