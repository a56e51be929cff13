// Package tui is the interactive todo list. Every keypress that changes the
// list goes straight through the Container, so storage is current as soon
// as the key is handled.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listItem adapts model.Todo to bubbles/list.Item
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Name }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Name }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	th := ui.Current()
	box := th.Muted.Render(th.BoxUnchecked)
	text := it.todo.Name
	if it.todo.Done {
		box = th.Success.Render(th.BoxChecked)
		text = th.Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = th.Selected.Render(">") + " "
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

var (
	toggleBind = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	addBind    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
)

// Model is the bubbletea model. It holds no todo state of its own; the list
// is rebuilt from the Container after each change.
type Model struct {
	todos  *todo.Container
	list   list.Model
	adding bool
	ti     textinput.Model
	width  int
	height int
}

// New panics when c is nil: the list cannot exist outside a Container.
func New(c *todo.Container) Model {
	if c == nil {
		panic("tui: nil todo container")
	}
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, deleteBind, addBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, deleteBind, addBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = 200

	m := Model{todos: c, list: l, ti: ti, width: 80, height: 24}
	m.resize()
	m.refresh()
	return m
}

// Run starts the program in the alternate screen and blocks until quit.
func Run(c *todo.Container) error {
	_, err := tea.NewProgram(New(c), tea.WithAltScreen()).Run()
	return err
}

// refresh rebuilds the list items and header from the Container.
func (m *Model) refresh() tea.Cmd {
	todos := m.todos.Todos()
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{todo: t})
	}
	cmd := m.list.SetItems(items)

	s := todo.Summarize(todos)
	th := ui.Current()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), s.Done,
		th.Pending.Render(th.SymPending), s.Total-s.Done,
		th.Accent.Render("Total"), s.Total,
	)
	if n := len(m.list.VisibleItems()); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	return cmd
}

func (m *Model) resize() {
	h := m.height - 4
	if m.adding {
		h = m.height - 7
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) selected() (model.Todo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.todo, ok
}

// Update and View implement Bubble Tea's Model
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	// add mode
	if m.adding {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				before := len(m.todos.Todos())
				m.todos.Add(m.ti.Value())
				m.closeInput()
				cmd := m.refresh()
				if n := len(m.todos.Todos()); n > before {
					m.list.ResetFilter()
					m.list.Select(n - 1)
				}
				return m, cmd
			case "esc":
				m.closeInput()
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	// while typing a filter every key belongs to the list
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				m.list.ResetFilter()
				return m, nil
			}
			return m, tea.Quit
		case "q":
			return m, tea.Quit
		case " ":
			if t, ok := m.selected(); ok {
				m.todos.Toggle(t.ID)
				return m, m.refresh()
			}
			return m, nil
		case "d":
			if t, ok := m.selected(); ok {
				m.todos.Delete(t.ID)
				return m, m.refresh()
			}
			return m, nil
		case "a":
			m.adding = true
			m.ti.SetValue("")
			m.resize()
			return m, m.ti.Focus()
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding = false
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m Model) View() string {
	content := m.list.View()
	if m.adding {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		content += "\n" + bar.Render("Add new item\n"+m.ti.View())
	}
	return ui.PanelString(strings.TrimRight(content, "\n"))
}
