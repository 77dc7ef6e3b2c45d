package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/tasks"
)

type playlistsLoadedMsg struct {
	playlists []models.Playlist
	err       error
}

type videosLoadedMsg struct {
	pane       int
	playlistID string
	videos     []models.Video
	err        error
}

type moveDoneMsg struct {
	result *tasks.MoveResult
	err    error
}

type playlistMutatedMsg struct {
	action string
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

// statusClearMsg expires a transient status line.
type statusClearMsg struct{ seq int }

var (
	_ tea.Msg = playlistsLoadedMsg{}
	_ tea.Msg = videosLoadedMsg{}
	_ tea.Msg = moveDoneMsg{}
	_ tea.Msg = playlistMutatedMsg{}
	_ tea.Msg = exportDoneMsg{}
)
