package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	switch_ key.Binding
	enter   key.Binding
	back    key.Binding
	grab    key.Binding
	sort    key.Binding
	filter  key.Binding
	pick    key.Binding
	create  key.Binding
	rename  key.Binding
	delete  key.Binding
	refresh key.Binding
	export  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		switch_: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		grab:    key.NewBinding(key.WithKeys("m", " "), key.WithHelp("m/space", "grab video")),
		sort:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle sort")),
		filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		pick:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pick playlist")),
		create:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		rename:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename playlist")),
		delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete playlist")),
		refresh: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
		export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.grab, k.switch_, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.switch_, k.enter},
		{k.grab, k.sort, k.filter, k.pick},
		{k.create, k.rename, k.delete, k.refresh},
		{k.export, k.back, k.quit},
	}
}
