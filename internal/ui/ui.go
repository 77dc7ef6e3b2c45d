package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/formatter"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/store"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	PickPlaylistView
	BrowseView
	MoveView
	PromptView
	ConfirmDeleteView
)

// sortMode is the video ordering of one pane.
type sortMode int

const (
	sortServer sortMode = iota // server response order
	sortTitle                  // title ascending
	sortDate                   // newest first
)

func (s sortMode) String() string {
	switch s {
	case sortTitle:
		return "title"
	case sortDate:
		return "date"
	default:
		return "server"
	}
}

// pane is one side of the organizer: a chosen playlist and its videos.
type pane struct {
	playlist models.Playlist
	videos   []models.Video
	list     list.Model
	loaded   bool
	sort     sortMode
}

// grabState marks a video picked up for a keyboard move.
type grabState struct {
	pane  int
	video models.Video
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	cache  *store.Store
	engine *tasks.Engine

	width  int
	height int

	playlists []models.Playlist
	picker    list.Model
	pickerFor int

	panes [2]pane
	focus int

	grabbed *grabState

	gesture    DragGesture
	dragPane   int
	dragVideo  *models.Video
	dropTarget int

	prompt       textinput.Model
	promptAction string

	pendingDelete *models.Playlist

	status    string
	statusErr bool
	statusSeq int

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, cache *store.Store, engine *tasks.Engine) *Model {
	prompt := textinput.New()
	prompt.CharLimit = 150
	prompt.Width = 40

	return &Model{
		ctx:        ctx,
		view:       LoadingView,
		cache:      cache,
		engine:     engine,
		gesture:    NewDragGesture(0),
		dropTarget: -1,
		prompt:     prompt,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts by loading the playlist collection.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView, MoveView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case PickPlaylistView:
			return m.handlePickerKeys(msg)
		case BrowseView:
			return m.handleBrowseKeys(msg)
		case PromptView:
			return m.handlePromptKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmDeleteKeys(msg)
		}

	case tea.MouseMsg:
		if m.view == BrowseView {
			return m.handleMouse(msg)
		}
		return m, nil

	case playlistsLoadedMsg:
		return m.handlePlaylistsLoaded(msg)

	case videosLoadedMsg:
		return m.handleVideosLoaded(msg)

	case moveDoneMsg:
		return m.handleMoveDone(msg)

	case playlistMutatedMsg:
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("%s failed: %v", msg.action, msg.err), true)
		}
		return m, tea.Batch(m.fetchPlaylists(), m.setStatus(msg.action+" done", false))

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("export failed: %v", msg.err), true)
		}
		return m, m.setStatus("exported to "+msg.path, false)

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}

	return m.updateFocusedList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return styles.title.Render("Loading playlists...")
	case PickPlaylistView:
		return m.renderPicker()
	case BrowseView:
		return m.renderBrowse()
	case MoveView:
		return m.renderMove()
	case PromptView:
		return m.renderPrompt()
	case ConfirmDeleteView:
		return m.renderConfirmDelete()
	default:
		return ""
	}
}

func (m *Model) resize() {
	paneWidth, paneHeight := m.paneSize()
	for i := range m.panes {
		if m.panes[i].loaded {
			m.panes[i].list.SetSize(paneWidth, paneHeight)
		}
	}
	if m.picker.Items() != nil {
		m.picker.SetSize(m.width-4, m.height-8)
	}
}

func (m *Model) paneSize() (w, h int) {
	w = m.width/2 - 4
	h = m.height - 8
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	return w, h
}

// paneAt maps a terminal column to a pane index.
func (m *Model) paneAt(x int) int {
	if x < m.width/2 {
		return 0
	}
	return 1
}

// ---- key handlers ----

func (m *Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.panes[0].loaded && m.panes[1].loaded {
			m.view = BrowseView
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		return m.openPrompt("create", "")
	case key.Matches(msg, m.keys.enter):
		selected, ok := m.picker.SelectedItem().(playlistItem)
		if !ok {
			return m, nil
		}
		other := 1 - m.pickerFor
		if m.panes[other].loaded && m.panes[other].playlist.ID == selected.playlist.ID {
			return m, m.setStatus("that playlist is already open in the other pane", true)
		}
		m.panes[m.pickerFor].playlist = selected.playlist
		m.panes[m.pickerFor].loaded = false
		return m, m.fetchVideos(m.pickerFor, selected.playlist.ID)
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	focused := &m.panes[m.focus]

	if focused.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		focused.list, cmd = focused.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.switch_):
		m.focus = 1 - m.focus
		return m, nil

	case key.Matches(msg, m.keys.back):
		if m.grabbed != nil {
			m.grabbed = nil
			return m, m.setStatus("move cancelled", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.grab):
		if m.grabbed != nil {
			m.grabbed = nil
			return m, m.setStatus("move cancelled", false)
		}
		item, ok := focused.list.SelectedItem().(videoItem)
		if !ok {
			return m, nil
		}
		m.grabbed = &grabState{pane: m.focus, video: item.video}
		return m, m.setStatus(fmt.Sprintf("grabbed %q, press enter on the other pane to drop", item.video.Title), false)

	case key.Matches(msg, m.keys.enter):
		if m.grabbed == nil {
			return m, nil
		}
		if m.focus == m.grabbed.pane {
			return m, m.setStatus("switch panes to drop into the other playlist", true)
		}
		return m.startMove(m.grabbed.pane, m.focus, m.grabbed.video)

	case key.Matches(msg, m.keys.sort):
		focused.sort = (focused.sort + 1) % 3
		m.applySort(m.focus)
		return m, m.setStatus("sorted by "+focused.sort.String(), false)

	case key.Matches(msg, m.keys.pick):
		m.pickerFor = m.focus
		m.view = PickPlaylistView
		return m, nil

	case key.Matches(msg, m.keys.create):
		return m.openPrompt("create", "")

	case key.Matches(msg, m.keys.rename):
		return m.openPrompt("rename", focused.playlist.Title)

	case key.Matches(msg, m.keys.delete):
		playlist := focused.playlist
		m.pendingDelete = &playlist
		m.view = ConfirmDeleteView
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		m.cache.InvalidateAll()
		return m, tea.Batch(
			m.fetchPlaylists(),
			m.fetchVideos(0, m.panes[0].playlist.ID),
			m.fetchVideos(1, m.panes[1].playlist.ID),
		)

	case key.Matches(msg, m.keys.export):
		return m, m.exportPane(m.focus)
	}

	var cmd tea.Cmd
	focused.list, cmd = focused.list.Update(msg)
	return m, cmd
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = BrowseView
		if !m.panes[0].loaded || !m.panes[1].loaded {
			m.view = PickPlaylistView
		}
		return m, nil
	case "enter":
		title := m.prompt.Value()
		if title == "" {
			return m, m.setStatus("a title is required", true)
		}
		action := m.promptAction
		playlistID := m.panes[m.focus].playlist.ID
		m.view = BrowseView
		if !m.panes[0].loaded || !m.panes[1].loaded {
			m.view = PickPlaylistView
		}
		if action == "create" {
			return m, m.createPlaylist(title)
		}
		return m, m.renamePlaylist(playlistID, title)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		playlist := m.pendingDelete
		m.pendingDelete = nil
		// The pane needs a new playlist, so route back through the picker.
		m.panes[m.focus].loaded = false
		m.pickerFor = m.focus
		m.view = PickPlaylistView
		return m, m.deletePlaylist(playlist.ID)
	case "n", "esc", "q":
		m.pendingDelete = nil
		m.view = BrowseView
		return m, nil
	}
	return m, nil
}

// ---- mouse handling ----

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	mouse := tea.MouseEvent(msg)

	switch mouse.Action {
	case tea.MouseActionPress:
		if mouse.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.gesture.Press(mouse.X, mouse.Y)
		m.dragPane = m.paneAt(mouse.X)
		if item, ok := m.panes[m.dragPane].list.SelectedItem().(videoItem); ok {
			video := item.video
			m.dragVideo = &video
		} else {
			m.dragVideo = nil
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.gesture.Move(mouse.X, mouse.Y) && m.dragVideo != nil {
			m.statusErr = false
			m.status = fmt.Sprintf("dragging %q", m.dragVideo.Title)
		}
		if m.gesture.Phase() == DragDragging {
			m.dropTarget = m.paneAt(mouse.X)
		}
		return m, nil

	case tea.MouseActionRelease:
		target := m.paneAt(mouse.X)
		m.dropTarget = -1
		dragged := m.gesture.Release()
		if !dragged || m.dragVideo == nil {
			// A plain click: just move focus to the clicked pane.
			m.focus = target
			return m, nil
		}

		video := *m.dragVideo
		m.dragVideo = nil
		m.status = ""

		if target == m.dragPane {
			return m, m.setStatus("drop cancelled: same playlist", true)
		}
		return m.startMove(m.dragPane, target, video)
	}

	return m, nil
}

// ---- message handlers ----

func (m *Model) handlePlaylistsLoaded(msg playlistsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.view == LoadingView {
			m.err = msg.err
			return m, nil
		}
		return m, m.setStatus(fmt.Sprintf("failed to load playlists: %v", msg.err), true)
	}

	m.playlists = msg.playlists

	items := make([]list.Item, len(msg.playlists))
	for i, pl := range msg.playlists {
		items[i] = playlistItem{playlist: pl}
	}
	m.picker = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.picker.Title = "Choose a playlist"
	m.picker.SetSize(m.width-4, m.height-8)

	// Refresh pane metadata; counts change after moves.
	for i := range m.panes {
		for _, pl := range msg.playlists {
			if m.panes[i].playlist.ID == pl.ID {
				m.panes[i].playlist = pl
			}
		}
	}

	if m.view == LoadingView {
		if len(msg.playlists) == 0 {
			m.view = PickPlaylistView
			return m, m.setStatus("no playlists yet, press n to create one", false)
		}
		m.pickerFor = 0
		m.view = PickPlaylistView
	}
	return m, nil
}

func (m *Model) handleVideosLoaded(msg videosLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.setStatus(fmt.Sprintf("failed to load videos: %v", msg.err), true)
	}
	if m.panes[msg.pane].playlist.ID != msg.playlistID {
		// Stale response for a pane that has since switched playlists.
		return m, nil
	}

	p := &m.panes[msg.pane]
	p.videos = msg.videos
	wasLoaded := p.loaded
	p.loaded = true
	m.setPaneItems(msg.pane)

	if !wasLoaded {
		paneWidth, paneHeight := m.paneSize()
		p.list.SetSize(paneWidth, paneHeight)
	}

	if m.view == PickPlaylistView && msg.pane == m.pickerFor {
		other := 1 - m.pickerFor
		if !m.panes[other].loaded {
			m.pickerFor = other
			return m, nil
		}
		m.view = BrowseView
	}
	return m, nil
}

func (m *Model) handleMoveDone(msg moveDoneMsg) (tea.Model, tea.Cmd) {
	m.view = BrowseView
	m.grabbed = nil

	refetch := tea.Batch(
		m.fetchPlaylists(),
		m.fetchVideos(0, m.panes[0].playlist.ID),
		m.fetchVideos(1, m.panes[1].playlist.ID),
	)

	if msg.err != nil {
		var partial *tasks.PartialMoveError
		if errors.As(msg.err, &partial) {
			return m, tea.Batch(refetch, m.setStatus(
				fmt.Sprintf("move incomplete: video is now in both playlists (remove it manually from %s)", partial.SourceID), true))
		}
		if errors.Is(msg.err, shared.ErrVideoNotFound) {
			return m, tea.Batch(refetch, m.setStatus("video is no longer in the source playlist", true))
		}
		return m, m.setStatus(fmt.Sprintf("move failed: %v", msg.err), true)
	}

	return m, tea.Batch(refetch, m.setStatus(fmt.Sprintf("moved %q", msg.result.Video.Title), false))
}

// ---- commands ----

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.cache.Playlists(m.ctx)
		return playlistsLoadedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) fetchVideos(paneIdx int, playlistID string) tea.Cmd {
	if playlistID == "" {
		return nil
	}
	return func() tea.Msg {
		videos, err := m.cache.PlaylistVideos(m.ctx, playlistID)
		return videosLoadedMsg{pane: paneIdx, playlistID: playlistID, videos: videos, err: err}
	}
}

func (m *Model) startMove(sourcePane, targetPane int, video models.Video) (tea.Model, tea.Cmd) {
	source := m.panes[sourcePane].playlist.ID
	target := m.panes[targetPane].playlist.ID
	m.view = MoveView

	return m, func() tea.Msg {
		result, err := m.engine.Move(m.ctx, source, target, video.ID, nil)
		return moveDoneMsg{result: result, err: err}
	}
}

func (m *Model) createPlaylist(title string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.CreatePlaylist(m.ctx, title, nil)
		return playlistMutatedMsg{action: "create", err: err}
	}
}

func (m *Model) renamePlaylist(playlistID, title string) tea.Cmd {
	return func() tea.Msg {
		err := m.engine.RenamePlaylist(m.ctx, playlistID, title, nil)
		return playlistMutatedMsg{action: "rename", err: err}
	}
}

func (m *Model) deletePlaylist(playlistID string) tea.Cmd {
	return func() tea.Msg {
		err := m.engine.DeletePlaylist(m.ctx, playlistID, nil)
		return playlistMutatedMsg{action: "delete", err: err}
	}
}

func (m *Model) exportPane(paneIdx int) tea.Cmd {
	p := m.panes[paneIdx]
	return func() tea.Msg {
		result, err := formatter.WriteCSVExport(p.playlist, p.videos, "")
		if err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: result.VideosFile}
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func (m *Model) openPrompt(action, initial string) (tea.Model, tea.Cmd) {
	m.promptAction = action
	m.prompt.SetValue(initial)
	m.prompt.CursorEnd()
	m.view = PromptView
	return m, m.prompt.Focus()
}

// ---- pane helpers ----

func (m *Model) setPaneItems(paneIdx int) {
	p := &m.panes[paneIdx]

	sorted := make([]models.Video, len(p.videos))
	copy(sorted, p.videos)
	switch p.sort {
	case sortTitle:
		models.SortVideosByTitle(sorted)
	case sortDate:
		models.SortVideosByDate(sorted)
	}

	items := make([]list.Item, len(sorted))
	for i, v := range sorted {
		items[i] = videoItem{video: v}
	}

	if p.list.Items() == nil {
		p.list = list.New(items, list.NewDefaultDelegate(), 0, 0)
		p.list.SetShowTitle(false)
		p.list.SetShowHelp(false)
	} else {
		p.list.SetItems(items)
	}
}

func (m *Model) applySort(paneIdx int) {
	m.setPaneItems(paneIdx)
}

func (m *Model) updateFocusedList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PickPlaylistView:
		m.picker, cmd = m.picker.Update(msg)
	case BrowseView:
		m.panes[m.focus].list, cmd = m.panes[m.focus].list.Update(msg)
	}
	return m, cmd
}

// ---- rendering ----

func (m *Model) renderPicker() string {
	side := "left"
	if m.pickerFor == 1 {
		side = "right"
	}
	title := styles.title.Render(fmt.Sprintf("Pick the %s pane's playlist", side))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.create, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s%s", title, m.picker.View(), helpView, m.renderStatus())
}

func (m *Model) renderBrowse() string {
	left := m.renderPane(0)
	right := m.renderPane(1)
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.grab, m.keys.enter, m.keys.switch_, m.keys.sort, m.keys.pick, m.keys.quit,
	})

	return fmt.Sprintf("%s\n%s%s", panes, helpView, m.renderStatus())
}

func (m *Model) renderPane(paneIdx int) string {
	p := m.panes[paneIdx]

	header := fmt.Sprintf("%s (%d)", p.playlist.Title, p.playlist.ItemCount)
	if p.sort != sortServer {
		header = fmt.Sprintf("%s • by %s", header, p.sort)
	}
	if m.grabbed != nil && m.grabbed.pane == paneIdx {
		header = fmt.Sprintf("%s %s", header, styles.grabbed.Render("[moving "+m.grabbed.video.Title+"]"))
	}
	if m.dropTarget == paneIdx && m.gesture.Phase() == DragDragging {
		header = fmt.Sprintf("%s %s", header, styles.ok.Render("[drop here]"))
	}

	body := "No videos in this playlist yet.\nDrag one here or press m on the other pane."
	if len(p.videos) > 0 {
		body = p.list.View()
	}

	content := fmt.Sprintf("%s\n%s", styles.title.Render(header), body)
	if paneIdx == m.focus {
		return styles.focused.Render(content)
	}
	return styles.blurred.Render(content)
}

func (m *Model) renderMove() string {
	return styles.title.Render("Moving video...") + "\n\n" + styles.help.Render("finding, inserting, removing")
}

func (m *Model) renderPrompt() string {
	label := "New playlist title"
	if m.promptAction == "rename" {
		label = fmt.Sprintf("Rename %q", m.panes[m.focus].playlist.Title)
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s",
		styles.title.Render(label),
		m.prompt.View(),
		styles.help.Render("enter to confirm, esc to cancel"))
}

func (m *Model) renderConfirmDelete() string {
	if m.pendingDelete == nil {
		return ""
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s",
		styles.warn.Render(fmt.Sprintf("Delete playlist %q?", m.pendingDelete.Title)),
		fmt.Sprintf("%d videos will be removed from your account.", m.pendingDelete.ItemCount),
		styles.help.Render("y to delete, n to cancel"))
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return "\n" + styles.err.Render(m.status)
	}
	return "\n" + styles.ok.Render(m.status)
}
