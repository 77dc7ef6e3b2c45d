// package models defines the data model for the playlist organizer
package models

import (
	"sort"
	"strings"
	"time"
)

// Model defines the base interface for persistent models in the organizer.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Playlist represents a playlist owned by the signed-in user.
//
// The remote service owns the record; clients hold a read-mostly cached copy.
type Playlist struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ItemCount    int    `json:"item_count"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// Video represents one entry of a playlist.
//
// ItemID is the resource-binding id of the membership record inside a
// specific playlist; it is distinct from the video's own ID and is the
// handle required to delete the entry.
type Video struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channel_title"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     string    `json:"duration,omitempty"`
	PublishedAt  time.Time `json:"published_at,omitempty"`
}

// FilterVideos returns the videos whose title or description contains the
// query, case-insensitively. An empty query returns the input unchanged.
func FilterVideos(videos []Video, query string) []Video {
	if query == "" {
		return videos
	}

	q := strings.ToLower(query)
	filtered := make([]Video, 0, len(videos))
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Title), q) || strings.Contains(strings.ToLower(v.Description), q) {
			filtered = append(filtered, v)
		}
	}

	return filtered
}

// SortVideosByTitle sorts videos lexicographically ascending by title.
func SortVideosByTitle(videos []Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Title < videos[j].Title
	})
}

// SortVideosByDate sorts videos by publish timestamp, newest first.
// Videos without a timestamp sort last, keeping their relative order.
func SortVideosByDate(videos []Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		a, b := videos[i].PublishedAt, videos[j].PublishedAt
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})
}
