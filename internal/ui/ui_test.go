package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/spotctl/internal/auth"
	"github.com/desertthunder/spotctl/internal/credentials"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/player"
)

type stubController struct {
	calls []player.Command
	err   error
}

func (s *stubController) Control(ctx context.Context, cmd player.Command, source models.Source) (player.Ack, error) {
	s.calls = append(s.calls, cmd)
	if s.err != nil {
		return player.Ack{}, s.err
	}
	return player.Ack{Command: cmd, Status: 204}, nil
}

type stubHistory struct {
	entries []*models.HistoryEntry
	limit   int
}

func (s *stubHistory) List(ctx context.Context, limit int, criteria map[string]any) ([]*models.HistoryEntry, error) {
	s.limit = limit
	return s.entries, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg to m and runs any resulting command once, feeding its message back.
func press(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()

	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if next := cmd(); next != nil {
		m.Update(next)
	}
}

func TestModel(t *testing.T) {
	t.Run("Enter Dispatches Selected Command", func(t *testing.T) {
		controller := &stubController{}
		m := NewModel(context.Background(), controller, nil)

		press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if len(controller.calls) != 1 || controller.calls[0] != player.Play {
			t.Fatalf("expected play dispatch, got %v", controller.calls)
		}
		if !strings.Contains(m.View(), "✓ play (204)") {
			t.Errorf("expected success status in view, got:\n%s", m.View())
		}
	})

	t.Run("Shortcuts", func(t *testing.T) {
		controller := &stubController{}
		m := NewModel(context.Background(), controller, nil)

		press(t, m, runes("n"))
		press(t, m, runes("b"))
		press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

		want := []player.Command{player.Next, player.Previous, player.Pause}
		if len(controller.calls) != len(want) {
			t.Fatalf("expected %v, got %v", want, controller.calls)
		}
		for i := range want {
			if controller.calls[i] != want[i] {
				t.Errorf("call %d: expected %s, got %s", i, want[i], controller.calls[i])
			}
		}
	})

	t.Run("One Command In Flight", func(t *testing.T) {
		controller := &stubController{}
		m := NewModel(context.Background(), controller, nil)

		_, first := m.Update(runes("n"))
		_, second := m.Update(runes("p"))

		if first == nil {
			t.Fatal("expected first dispatch")
		}
		if second != nil {
			t.Error("expected second dispatch to be ignored while pending")
		}
		if !strings.Contains(m.View(), "Sending next") {
			t.Errorf("expected pending status, got:\n%s", m.View())
		}
	})

	t.Run("Auth Failure Suggests Login", func(t *testing.T) {
		controller := &stubController{err: &auth.AuthError{Kind: auth.NoCredentials, Err: credentials.ErrNoRecord}}
		m := NewModel(context.Background(), controller, nil)

		press(t, m, runes("p"))

		view := m.View()
		if !strings.Contains(view, "play failed (401)") {
			t.Errorf("expected failure status, got:\n%s", view)
		}
		if !strings.Contains(view, "spotctl auth login") {
			t.Errorf("expected login hint, got:\n%s", view)
		}
	})

	t.Run("Dispatch Failure", func(t *testing.T) {
		controller := &stubController{err: &player.DispatchError{Kind: player.Rejected, Command: "next", Status: 404, Reason: "no active device"}}
		m := NewModel(context.Background(), controller, nil)

		press(t, m, runes("n"))

		if view := m.View(); !strings.Contains(view, "no active device") || strings.Contains(view, "auth login") {
			t.Errorf("unexpected view:\n%s", view)
		}
	})

	t.Run("History View", func(t *testing.T) {
		history := &stubHistory{entries: []*models.HistoryEntry{
			models.NewHistoryEntry("pause", models.SourceWeb, 200, nil),
		}}
		m := NewModel(context.Background(), &stubController{}, history)

		press(t, m, tea.KeyMsg{Type: tea.KeyTab})

		if m.view != HistoryView {
			t.Fatal("expected history view")
		}
		if history.limit != HistoryLimit {
			t.Errorf("expected limit %d, got %d", HistoryLimit, history.limit)
		}
		if view := m.View(); !strings.Contains(view, "Recent Commands") || !strings.Contains(view, "pause") {
			t.Errorf("unexpected history view:\n%s", view)
		}

		press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != CommandView {
			t.Error("expected to return to command view")
		}
	})

	t.Run("History Disabled", func(t *testing.T) {
		m := NewModel(context.Background(), &stubController{}, nil)

		press(t, m, tea.KeyMsg{Type: tea.KeyTab})

		if m.view != CommandView {
			t.Error("expected to stay on command view without history")
		}
	})

	t.Run("History Error", func(t *testing.T) {
		m := NewModel(context.Background(), &stubController{}, &stubHistory{})
		m.view = HistoryView

		m.Update(historyFetchedMsg(nil, errors.New("database is locked")))

		if !strings.Contains(m.View(), "database is locked") {
			t.Errorf("expected error in view, got:\n%s", m.View())
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m := NewModel(context.Background(), &stubController{}, nil)

		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}
