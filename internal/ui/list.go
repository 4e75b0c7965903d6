package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/spotctl/internal/player"
)

var _ list.Item = commandItem{}

var descriptions = map[player.Command]string{
	player.Play:     "Start or resume playback",
	player.Pause:    "Pause playback",
	player.Next:     "Skip to the next track",
	player.Previous: "Go back to the previous track",
}

// commandItem wraps [player.Command] to implement [list.Item].
type commandItem struct {
	command player.Command
}

func (i commandItem) FilterValue() string { return i.command.String() }
func (i commandItem) Title() string       { return i.command.String() }
func (i commandItem) Description() string { return descriptions[i.command] }

func commandItems() []list.Item {
	items := make([]list.Item, len(player.Commands))
	for i, cmd := range player.Commands {
		items[i] = commandItem{command: cmd}
	}
	return items
}
