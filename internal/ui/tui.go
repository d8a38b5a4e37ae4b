package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/localtodo/internal/model"
)

// listItem adapts model.Todo to bubbles/list.Item.
type listItem struct {
	todo model.Todo
}

func (i listItem) Title() string       { return i.todo.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Text }

// itemDelegate renders one todo per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render("☐")
	text := it.todo.Text
	if it.todo.Done {
		box = successStyle.Render("☑")
		text = doneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

type tuiModel struct {
	list    list.Model
	changed bool
	width   int
	height  int

	// Inline add/edit share one text input.
	ti        textinput.Model
	adding    bool
	editing   bool
	editIndex int
	inputErr  string

	// Single-level undo of the last delete.
	undoItem  *listItem
	undoIndex int
}

func newTUIModel(todos model.TodoList) tuiModel {
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{todo: t})
	}

	l := list.New(items, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind := key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	extra := func() []key.Binding { return []key.Binding{toggleBind, addBind, editBind, delBind, undoBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := tuiModel{list: l, ti: ti, width: 80, height: 24}
	m.refreshTitle()
	return m
}

// RunTUI shows todos in an interactive list. It returns the edited list and
// whether anything changed; persisting is the caller's job.
func RunTUI(todos model.TodoList) (model.TodoList, bool, error) {
	p := tea.NewProgram(newTUIModel(todos), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	fm, ok := final.(tuiModel)
	if !ok || !fm.changed {
		return todos, false, nil
	}
	return fm.todos(), true, nil
}

// todos reads the list back in display order.
func (m tuiModel) todos() model.TodoList {
	out := make(model.TodoList, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, li.todo)
		}
	}
	return out
}

func (m *tuiModel) refreshTitle() {
	todos := m.todos()
	done, pending := todos.Stats()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(todos),
	)
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}
	if m.adding || m.editing {
		return m.updateInput(msg)
	}
	// While the filter prompt is open, keys belong to it.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "q", "esc":
			if m.list.FilterState() == list.FilterApplied && km.String() == "esc" {
				break
			}
			return m, tea.Quit
		case " ":
			if li, i, ok := m.selected(); ok {
				li.todo.Done = !li.todo.Done
				m.list.SetItem(i, li)
				m.markChanged()
			}
			return m, nil
		case "d":
			if li, i, ok := m.selected(); ok {
				m.undoItem = &li
				m.undoIndex = i
				m.list.RemoveItem(i)
				m.markChanged()
			}
			return m, nil
		case "a":
			m.adding = true
			m.inputErr = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New todo..."
			m.ti.Focus()
			return m, nil
		case "e":
			if li, i, ok := m.selected(); ok {
				m.editing = true
				m.editIndex = i
				m.inputErr = ""
				m.ti.SetValue(li.todo.Text)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit todo..."
				m.ti.Focus()
			}
			return m, nil
		case "u":
			if m.undoItem != nil {
				idx := min(max(m.undoIndex, 0), len(m.list.Items()))
				m.list.InsertItem(idx, *m.undoItem)
				m.undoItem = nil
				m.markChanged()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m tuiModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			text := strings.TrimSpace(m.ti.Value())
			if text == "" {
				m.inputErr = "text cannot be empty"
				return m, nil
			}
			if m.adding {
				next := listItem{todo: model.Todo{ID: m.todos().NextID(), Text: text}}
				m.list.InsertItem(m.list.GlobalIndex()+1, next)
			} else if m.editIndex >= 0 && m.editIndex < len(m.list.Items()) {
				if li, ok := m.list.Items()[m.editIndex].(listItem); ok {
					li.todo.Text = text
					m.list.SetItem(m.editIndex, li)
				}
			}
			m.markChanged()
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *tuiModel) closeInput() {
	m.adding, m.editing = false, false
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m *tuiModel) markChanged() {
	m.changed = true
	m.refreshTitle()
}

// selected maps the cursor to an index into the unfiltered items.
func (m tuiModel) selected() (listItem, int, bool) {
	cur, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return listItem{}, -1, false
	}
	i := m.list.GlobalIndex()
	items := m.list.Items()
	if i < 0 || i >= len(items) {
		return listItem{}, -1, false
	}
	return cur, i, true
}

func (m tuiModel) View() string {
	listHeight := m.height - 4
	if m.adding || m.editing {
		listHeight = m.height - 6
	}
	m.list.SetSize(m.width-4, max(listHeight, 1))

	content := m.list.View()
	if m.adding || m.editing {
		title := "Add todo"
		if m.editing {
			title = "Edit todo"
		}
		if m.inputErr != "" {
			title += " - " + errorStyle.Render(m.inputErr)
		}
		content += "\n" + frameStyle.Render(title+"\n"+m.ti.View())
	}
	return frameStyle.Render(content)
}
