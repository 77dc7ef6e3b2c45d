package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = videoItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string       { return i.playlist.Title }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d videos", i.playlist.ItemCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// videoItem wraps [models.Video] to implement [list.Item]. Filtering matches
// title and description.
type videoItem struct {
	video models.Video
}

func (i videoItem) FilterValue() string {
	return i.video.Title + " " + i.video.Description
}

func (i videoItem) Title() string { return i.video.Title }
func (i videoItem) Description() string {
	desc := i.video.ChannelTitle
	if i.video.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.video.Duration)
	}
	return desc
}
