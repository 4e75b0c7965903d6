package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/spotctl/internal/formatter"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/player"
	"github.com/desertthunder/spotctl/internal/services"
)

// HistoryLimit is how many entries the history view shows.
const HistoryLimit = 15

// ViewState represents the current view in the remote.
type ViewState int

const (
	CommandView ViewState = iota
	HistoryView
)

// Controller dispatches playback commands.
type Controller interface {
	Control(ctx context.Context, cmd player.Command, source models.Source) (player.Ack, error)
}

// HistoryLister reads recorded commands, newest first.
type HistoryLister interface {
	List(ctx context.Context, limit int, criteria map[string]any) ([]*models.HistoryEntry, error)
}

// Model represents the remote's state.
type Model struct {
	ctx        context.Context
	view       ViewState
	controller Controller
	history    HistoryLister
	width      int
	height     int
	commands   list.Model
	pending    player.Command
	last       *commandResult
	entries    []*models.HistoryEntry
	historyErr error
	help       help.Model
	keys       keyMap
}

// NewModel creates a remote model. history may be nil when no history database is configured.
func NewModel(ctx context.Context, controller Controller, history HistoryLister) *Model {
	commands := list.New(commandItems(), list.NewDefaultDelegate(), 40, 14)
	commands.Title = "spotctl remote"
	commands.SetFilteringEnabled(false)
	commands.SetShowHelp(false)
	commands.DisableQuitKeybindings()

	return &Model{
		ctx:        ctx,
		view:       CommandView,
		controller: controller,
		history:    history,
		commands:   commands,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Run starts the remote on the terminal and blocks until the user quits or ctx ends.
func Run(ctx context.Context, controller Controller, history HistoryLister) error {
	program := tea.NewProgram(NewModel(ctx, controller, history), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("remote exited: %w", err)
	}
	return nil
}

// Init implements [tea.Model]. The remote waits for input.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.commands.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CommandView:
			return m.handleCommandKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgCommandDone:
			result := msg.data.(commandResult)
			m.pending = ""
			m.last = &result
			return m, nil
		case MsgHistoryFetched:
			result := msg.data.(historyResult)
			m.entries = result.entries
			m.historyErr = result.err
			return m, nil
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case CommandView:
		return m.renderCommands()
	case HistoryView:
		return m.renderHistory()
	default:
		return ""
	}
}

func (m *Model) handleCommandKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.history):
		if m.history == nil {
			return m, nil
		}
		m.view = HistoryView
		return m, m.fetchHistory()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.commands.SelectedItem().(commandItem); ok {
			return m, m.dispatch(item.command)
		}
		return m, nil
	}

	if cmd, ok := m.keys.command(msg); ok {
		return m, m.dispatch(cmd)
	}

	var cmd tea.Cmd
	m.commands, cmd = m.commands.Update(msg)
	return m, cmd
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = CommandView
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchHistory()
	}
	return m, nil
}

// dispatch sends cmd unless another command is still in flight.
func (m *Model) dispatch(cmd player.Command) tea.Cmd {
	if m.pending != "" {
		return nil
	}
	m.pending = cmd

	return func() tea.Msg {
		ack, err := m.controller.Control(m.ctx, cmd, models.SourceCLI)
		return commandDoneMsg(cmd, ack, err)
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.history.List(m.ctx, HistoryLimit, nil)
		return historyFetchedMsg(entries, err)
	}
}

func (m *Model) renderCommands() string {
	helpKeys := []key.Binding{m.keys.enter}
	for _, cmd := range player.Commands {
		helpKeys = append(helpKeys, m.keys.shortcut[cmd])
	}
	if m.history != nil {
		helpKeys = append(helpKeys, m.keys.history)
	}
	helpKeys = append(helpKeys, m.keys.quit)

	return fmt.Sprintf("%s\n\n%s\n\n%s", m.commands.View(), m.renderStatus(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderStatus() string {
	switch {
	case m.pending != "":
		return styles.warn.Render(fmt.Sprintf("Sending %s...", m.pending))
	case m.last == nil:
		return styles.help.Render("No command sent yet")
	case m.last.err == nil:
		return styles.ok.Render(fmt.Sprintf("✓ %s (%d)", m.last.command, m.last.ack.Status))
	}

	status := styles.err.Render(fmt.Sprintf("✗ %s failed (%d): %s",
		m.last.command, services.StatusCode(m.last.err), services.Reason(m.last.err)))
	if services.NeedsAuthorization(m.last.err) {
		status += "\n" + styles.warn.Render("Run 'spotctl auth login' to authorize")
	}
	return status
}

func (m *Model) renderHistory() string {
	title := styles.title.Render("Recent Commands")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.refresh, m.keys.back, m.keys.quit})

	if m.historyErr != nil {
		return fmt.Sprintf("%s\n%s\n\n%s", title, styles.err.Render(fmt.Sprintf("Error: %v", m.historyErr)), helpView)
	}

	body, err := formatter.ExportToText(m.entries)
	if err != nil {
		body = []byte(err.Error())
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, styles.panel.Render(strings.TrimRight(string(body), "\n")), helpView)
}
