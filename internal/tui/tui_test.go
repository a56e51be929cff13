package tui_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/tui"
)

func newContainer(t *testing.T, names ...string) *todo.Container {
	t.Helper()
	c := todo.New(store.NewAdapter(memstore.New()), todo.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	for _, n := range names {
		c.Add(n)
	}
	return c
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestModel_ToggleSelected(t *testing.T) {
	c := newContainer(t, "A", "B")
	m := tea.Model(tui.New(c))

	send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	got := c.Todos()
	if !got[0].Done || got[1].Done {
		t.Errorf("got %#v, want only A done", got)
	}
}

func TestModel_DeleteSelected(t *testing.T) {
	c := newContainer(t, "A", "B")
	m := tea.Model(tui.New(c))

	m = send(m, runes("d"))

	got := c.Todos()
	if len(got) != 1 || got[0].Name != "B" {
		t.Fatalf("got %#v, want [B]", got)
	}
	if !strings.Contains(m.View(), "B") {
		t.Errorf("view does not show remaining item:\n%s", m.View())
	}
}

func TestModel_AddThroughInput(t *testing.T) {
	c := newContainer(t)
	m := tea.Model(tui.New(c))

	m = send(m, runes("a"), runes("Buy milk"), tea.KeyMsg{Type: tea.KeyEnter})

	got := c.Todos()
	if len(got) != 1 || got[0].Name != "Buy milk" || got[0].Done {
		t.Fatalf("got %#v, want one pending Buy milk", got)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Errorf("view does not show new item:\n%s", m.View())
	}
}

func TestModel_BlankAddIsIgnored(t *testing.T) {
	c := newContainer(t, "A")
	m := tea.Model(tui.New(c))

	send(m, runes("a"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})

	if n := len(c.Todos()); n != 1 {
		t.Errorf("got %d todos, want 1", n)
	}
}

func TestModel_EscCancelsAdd(t *testing.T) {
	c := newContainer(t)
	m := tea.Model(tui.New(c))

	m = send(m, runes("a"), runes("never"), tea.KeyMsg{Type: tea.KeyEsc})

	if n := len(c.Todos()); n != 0 {
		t.Errorf("got %d todos, want 0", n)
	}
	if strings.Contains(m.View(), "Add new item") {
		t.Error("input bar still visible after esc")
	}
}

func TestModel_KeysOnEmptyList(t *testing.T) {
	c := newContainer(t)
	m := tea.Model(tui.New(c))

	send(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, runes("d"))

	if n := len(c.Todos()); n != 0 {
		t.Errorf("got %d todos, want 0", n)
	}
}

func TestModel_Quit(t *testing.T) {
	m := tea.Model(tui.New(newContainer(t)))

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestNew_NilContainerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(nil) did not panic")
		}
	}()
	tui.New(nil)
}
