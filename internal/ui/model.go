// Package ui is the terminal front end for the shopping list API.
package ui

import (
	"context"
	"fmt"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// ItemAPI is the part of the API client the UI needs.
type ItemAPI interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	AddItem(ctx context.Context, description string) (domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) error
	DeleteItem(ctx context.Context, id int) error
}

type (
	itemsLoadedMsg struct{ items []domain.Item }
	itemAddedMsg   struct{ item domain.Item }
	itemUpdatedMsg struct{ item domain.Item }
	itemDeletedMsg struct{ id int }
	errMsg         struct{ err error }
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// Model holds the whole list view. The server is the source of truth: local
// state only changes once a request comes back.
type Model struct {
	api ItemAPI

	items   []domain.Item
	input   textinput.Model
	spinner spinner.Model
	loading bool
	adding  bool
	err     string
	hint    string
	cursor  int
	focus   focus
}

func New(api ItemAPI) Model {
	ti := textinput.New()
	ti.Prompt = "+ "
	ti.Placeholder = "Add an item..."
	ti.CharLimit = 200
	ti.Focus()

	return Model{
		api:     api,
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
		focus:   focusInput,
	}
}

// Run starts the UI full screen and blocks until the user quits.
func Run(api ItemAPI) error {
	_, err := tea.NewProgram(New(api), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.fetch())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case itemsLoadedMsg:
		m.loading = false
		m.err = ""
		m.items = msg.items
		m.clampCursor()
		return m, nil

	case itemAddedMsg:
		m.adding = false
		m.items = append(m.items, msg.item)
		m.input.SetValue("")
		return m, nil

	case itemUpdatedMsg:
		items := make([]domain.Item, len(m.items))
		for i, it := range m.items {
			if it.ID == msg.item.ID {
				it = msg.item
			}
			items[i] = it
		}
		m.items = items
		return m, nil

	case itemDeletedMsg:
		kept := make([]domain.Item, 0, len(m.items))
		for _, it := range m.items {
			if it.ID != msg.id {
				kept = append(kept, it)
			}
		}
		m.items = kept
		m.clampCursor()
		return m, nil

	case errMsg:
		m.loading = false
		m.adding = false
		m.err = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	m.hint = ""

	// the error view only offers retry and quit
	if m.err != "" {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			return m.refresh()
		}
		return m, nil
	}

	if m.focus == focusInput {
		switch msg.Type {
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyTab, tea.KeyEsc:
			m.focus = focusList
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "a", "i":
		m.focus = focusInput
		return m, m.input.Focus()
	case "up", "k":
		m.cursor--
		m.clampCursor()
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case " ":
		if it, ok := m.selected(); ok {
			it.IsDone = !it.IsDone
			return m, m.updateItem(it)
		}
	case "d", "x":
		if it, ok := m.selected(); ok {
			return m, m.deleteItem(it.ID)
		}
	case "r":
		return m.refresh()
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.adding {
		return m, nil
	}
	description := strings.TrimSpace(m.input.Value())
	if description == "" {
		m.hint = "Item description cannot be empty."
		return m, nil
	}
	m.adding = true
	return m, m.addItem(description)
}

func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) selected() (domain.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return domain.Item{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) fetch() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		items, err := api.ListItems(ctx)
		if err != nil {
			return errMsg{err}
		}
		return itemsLoadedMsg{items}
	}
}

func (m Model) addItem(description string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		item, err := api.AddItem(ctx, description)
		if err != nil {
			return errMsg{err}
		}
		return itemAddedMsg{item}
	}
}

func (m Model) updateItem(item domain.Item) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := api.UpdateItem(ctx, item); err != nil {
			return errMsg{err}
		}
		return itemUpdatedMsg{item}
	}
}

func (m Model) deleteItem(id int) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := api.DeleteItem(ctx, id); err != nil {
			return errMsg{err}
		}
		return itemDeletedMsg{id}
	}
}

func (m Model) View() string {
	if m.err != "" {
		return panelStyle.Render(
			errorStyle.Render("✖ "+m.err) + "\n\n" + helpStyle.Render("r retry • q quit"),
		)
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading items...")
	case len(m.items) == 0:
		b.WriteString(mutedStyle.Render("Nothing on the list yet."))
	default:
		for i, it := range m.items {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.row(i, it))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if m.hint != "" {
		b.WriteString("\n" + errorStyle.Render(m.hint))
	}

	b.WriteString("\n\n")
	if m.focus == focusInput {
		b.WriteString(helpStyle.Render("enter add • tab list • ctrl+c quit"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ move • space toggle • d delete • r refresh • tab add • q quit"))
	}

	return panelStyle.Render(b.String())
}

func (m Model) header() string {
	done := 0
	for _, it := range m.items {
		if it.IsDone {
			done++
		}
	}

	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Shopping List"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(m.items)-done,
		accentStyle.Render("Total"), len(m.items),
	)
}

func (m Model) row(i int, it domain.Item) string {
	box := mutedStyle.Render(boxUnchecked)
	text := it.Description
	if it.IsDone {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	prefix := "  "
	if m.focus == focusList && i == m.cursor {
		prefix = selectedStyle.Render("> ")
	}
	return fmt.Sprintf("%s%s %s", prefix, box, text)
}
