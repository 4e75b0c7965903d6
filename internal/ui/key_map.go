package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/spotctl/internal/player"
)

// keyMap defines the [key.Binding] mapping for the remote.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	history  key.Binding
	back     key.Binding
	refresh  key.Binding
	quit     key.Binding
	shortcut map[player.Command]key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		history: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
		back:    key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "back")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		shortcut: map[player.Command]key.Binding{
			player.Play:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
			player.Pause:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pause")),
			player.Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
			player.Previous: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "previous")),
		},
	}
}

// command returns the playback command whose shortcut matches msg.
func (k keyMap) command(msg tea.KeyMsg) (player.Command, bool) {
	for _, cmd := range player.Commands {
		if key.Matches(msg, k.shortcut[cmd]) {
			return cmd, true
		}
	}
	return "", false
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.history, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.shortcut[player.Play], k.shortcut[player.Pause], k.shortcut[player.Next], k.shortcut[player.Previous]},
		{k.history, k.back, k.refresh, k.quit},
	}
}
