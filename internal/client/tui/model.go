package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/client/services"
)

// refreshedMsg reports the result of an asynchronous directory operation.
type refreshedMsg struct{ err error }

// Model is the bubbletea model of the directory browser. Key bindings:
//
//	tab        next category
//	up/down    move the cursor
//	space      toggle the row under the cursor
//	a          toggle all visible rows
//	n / p      next / previous page
//	/          edit the search filter
//	r          reload the current page
//	q / esc    leave the browser
type Model struct {
	directory *services.Directory

	cursor    int
	searching bool
	search    textinput.Model
	loading   bool
	err       error
	width     int
}

func NewModel(directory *services.Directory) Model {
	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 64
	return Model{directory: directory, search: search}
}

func (m Model) Init() tea.Cmd {
	return m.refreshCmd(func(ctx context.Context) error {
		return m.directory.Refresh(ctx)
	})
}

func (m Model) refreshCmd(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: op(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshedMsg:
		m.loading = false
		m.err = msg.err
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.directory.SetQuery(m.search.Value())
		m.cursor = 0
		return m, nil
	case "esc":
		m.searching = false
		m.search.SetValue("")
		m.directory.SetQuery("")
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.directory.Visible())-1 {
			m.cursor++
		}

	case " ":
		visible := m.directory.Visible()
		if m.cursor < len(visible) {
			m.directory.Selection().Toggle(visible[m.cursor].ID)
		}

	case "a":
		m.directory.Selection().ToggleAll(m.directory.VisibleIDs())

	case "tab":
		next := nextCategory(m.directory.Category())
		m.cursor = 0
		m.loading = true
		return m, m.refreshCmd(func(ctx context.Context) error {
			return m.directory.Switch(ctx, next)
		})

	case "n":
		page := m.directory.Page()
		if page.Current < page.TotalPages {
			target := page.Current + 1
			m.cursor = 0
			m.loading = true
			return m, m.refreshCmd(func(ctx context.Context) error {
				return m.directory.LoadPage(ctx, target)
			})
		}

	case "p":
		page := m.directory.Page()
		if page.Current > 1 {
			target := page.Current - 1
			m.cursor = 0
			m.loading = true
			return m, m.refreshCmd(func(ctx context.Context) error {
				return m.directory.LoadPage(ctx, target)
			})
		}

	case "r":
		m.loading = true
		return m, m.refreshCmd(func(ctx context.Context) error {
			return m.directory.Refresh(ctx)
		})

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if max := len(m.directory.Visible()) - 1; m.cursor > max {
		if max < 0 {
			max = 0
		}
		m.cursor = max
	}
}

func nextCategory(current models.Category) models.Category {
	categories := models.Categories()
	for i, c := range categories {
		if c == current {
			return categories[(i+1)%len(categories)]
		}
	}
	return categories[0]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderRows())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		if c == m.directory.Category() {
			tabs = append(tabs, activeTabStyle.Render(string(c)))
		} else {
			tabs = append(tabs, tabStyle.Render(string(c)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderRows() string {
	schema := m.directory.Category().Schema()
	sel := m.directory.Selection()

	labels := make([]string, 0, len(schema)+1)
	labels = append(labels, "   ")
	for _, field := range schema {
		labels = append(labels, field.Label)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.Join(labels, "  ")))
	b.WriteString("\n")

	visible := m.directory.Visible()
	if len(visible) == 0 {
		b.WriteString(rowStyle.Render("  (no records)"))
		return b.String()
	}

	for i, record := range visible {
		mark := "[ ]"
		if sel.Selected(record.ID) {
			mark = selectedMarkStyle.Render("[x]")
		}
		cells := make([]string, 0, len(schema)+1)
		cells = append(cells, mark)
		for _, field := range schema {
			cells = append(cells, record.FieldValue(field.Key))
		}
		line := strings.Join(cells, "  ")
		if i == m.cursor {
			b.WriteString(cursorRowStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return errorStyle.Render("error: " + m.err.Error())
	}
	if m.searching {
		return statusStyle.Render("/" + m.search.View())
	}

	page := m.directory.Page()
	status := fmt.Sprintf("page %d/%d · %d items · %d selected",
		page.Current, page.TotalPages, page.TotalItems, m.directory.Selection().Count())
	if m.loading {
		status += " · loading"
	}
	return statusStyle.Render(status + "  (space select, a all, n/p page, / search, q quit)")
}
