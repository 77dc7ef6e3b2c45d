package models

import (
	"testing"
	"time"
)

func TestFilterVideos(t *testing.T) {
	videos := []Video{
		{ID: "v1", Title: "Go Concurrency Patterns", Description: "talk"},
		{ID: "v2", Title: "Cooking pasta", Description: "a go-to recipe"},
		{ID: "v3", Title: "Jazz standards", Description: "music"},
	}

	tc := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query returns everything", query: "", want: []string{"v1", "v2", "v3"}},
		{name: "matches titles case insensitively", query: "CONCURRENCY", want: []string{"v1"}},
		{name: "matches descriptions", query: "go-to", want: []string{"v2"}},
		{name: "matches title or description", query: "go", want: []string{"v1", "v2"}},
		{name: "no match yields empty", query: "quantum", want: []string{}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterVideos(videos, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterVideos() returned %d videos, want %d", len(got), len(tt.want))
			}
			for i, v := range got {
				if v.ID != tt.want[i] {
					t.Errorf("FilterVideos()[%d] = %s, want %s", i, v.ID, tt.want[i])
				}
			}
		})
	}
}

func TestSortVideos(t *testing.T) {
	t.Run("by title ascending", func(t *testing.T) {
		videos := []Video{
			{ID: "v1", Title: "Charlie"},
			{ID: "v2", Title: "Alpha"},
			{ID: "v3", Title: "Bravo"},
		}

		SortVideosByTitle(videos)

		want := []string{"Alpha", "Bravo", "Charlie"}
		for i, title := range want {
			if videos[i].Title != title {
				t.Errorf("position %d = %s, want %s", i, videos[i].Title, title)
			}
		}
	})

	t.Run("by date newest first", func(t *testing.T) {
		videos := []Video{
			{ID: "old", PublishedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "new", PublishedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "mid", PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}

		SortVideosByDate(videos)

		want := []string{"new", "mid", "old"}
		for i, id := range want {
			if videos[i].ID != id {
				t.Errorf("position %d = %s, want %s", i, videos[i].ID, id)
			}
		}
	})

	t.Run("videos without timestamps sort last", func(t *testing.T) {
		videos := []Video{
			{ID: "undated-1"},
			{ID: "dated", PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "undated-2"},
		}

		SortVideosByDate(videos)

		if videos[0].ID != "dated" {
			t.Errorf("expected the dated video first, got %s", videos[0].ID)
		}
		if videos[1].ID != "undated-1" || videos[2].ID != "undated-2" {
			t.Error("expected undated videos to keep their relative order")
		}
	})
}

func TestSession(t *testing.T) {
	t.Run("NewSession sets defaults", func(t *testing.T) {
		s := NewSession("user-1", "user@example.com", "access", "refresh", time.Now().Add(time.Hour))

		if s.Provider() != "google" {
			t.Errorf("expected provider google, got %s", s.Provider())
		}
		if s.CreatedAt().IsZero() || s.UpdatedAt().IsZero() {
			t.Error("expected timestamps to be set")
		}
		if err := s.Validate(); err != nil {
			t.Errorf("expected a valid session, got %v", err)
		}
	})

	t.Run("Validate rejects missing fields", func(t *testing.T) {
		if err := NewSession("", "e", "a", "r", time.Time{}).Validate(); err == nil {
			t.Error("expected an error without user_id")
		}
		if err := NewSession("u", "e", "", "r", time.Time{}).Validate(); err == nil {
			t.Error("expected an error without access_token")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		past := NewSession("u", "e", "a", "r", time.Now().Add(-time.Minute))
		if !past.Expired() {
			t.Error("expected an expired session")
		}

		future := NewSession("u", "e", "a", "r", time.Now().Add(time.Hour))
		if future.Expired() {
			t.Error("expected a live session")
		}

		zero := NewSession("u", "e", "a", "r", time.Time{})
		if zero.Expired() {
			t.Error("expected a session without expiry to never expire")
		}
	})

	t.Run("UpdateTokens keeps the refresh token when empty", func(t *testing.T) {
		s := NewSession("u", "e", "a", "original-refresh", time.Now())

		s.UpdateTokens("rotated", "", time.Now().Add(time.Hour))

		if s.AccessToken() != "rotated" {
			t.Errorf("expected rotated access token, got %s", s.AccessToken())
		}
		if s.RefreshToken() != "original-refresh" {
			t.Errorf("expected the original refresh token, got %s", s.RefreshToken())
		}
	})
}
