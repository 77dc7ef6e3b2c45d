// Package ui implements the two-pane organizer terminal interface using
// bubbletea's Elm architecture.
//
// Each pane shows the contents of one playlist. The workflow:
//  1. [PickPlaylistView] : Choose the playlist for a pane
//  2. [BrowseView] : Browse both panes, filter and sort videos
//  3. [MoveView] : Watch a video move between panes
//  4. [PromptView] : Name a new playlist or rename one
//  5. [ConfirmDeleteView] : Confirm playlist deletion
//
// Videos travel between panes by drag-and-drop (mouse) or grab-and-drop
// (keyboard). The drag gesture state machine lives in drag.go; a press only
// becomes a drag once the pointer travels past a small threshold, so plain
// clicks still select.
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Reads go through the query cache; mutations go through the task engine,
// which invalidates the cache so both panes refresh after every move.
package ui
