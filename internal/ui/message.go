package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/player"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the remote (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCommandDone MsgKind = iota
	MsgHistoryFetched
)

type commandResult struct {
	command player.Command
	ack     player.Ack
	err     error
}

type historyResult struct {
	entries []*models.HistoryEntry
	err     error
}

// commandDoneMsg is the constructor for [MsgCommandDone]
func commandDoneMsg(cmd player.Command, ack player.Ack, err error) Msg {
	return Msg{kind: MsgCommandDone, data: commandResult{command: cmd, ack: ack, err: err}}
}

// historyFetchedMsg is the constructor for [MsgHistoryFetched]
func historyFetchedMsg(entries []*models.HistoryEntry, err error) Msg {
	return Msg{kind: MsgHistoryFetched, data: historyResult{entries: entries, err: err}}
}
