package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model that pages through pre-rendered pages.
type Model struct {
	pages     []string
	paginator paginator.Model
	keys      pagerKeys
	help      help.Model
	done      bool
}

// NewModel creates a Model showing the first of the given pages.
func NewModel(pages []string) Model {
	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = 1
	p.ActiveDot = activeDot
	p.InactiveDot = inactiveDot
	p.SetTotalPages(len(pages))

	return Model{
		pages:     pages,
		paginator: p,
		keys:      PagerKeyMap(),
		help:      help.New(),
	}
}

// Page returns the 0-based index of the current page.
func (m Model) Page() int {
	return m.paginator.Page
}

// Done reports whether the user has left the pager.
func (m Model) Done() bool {
	return m.done
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	if len(m.pages) == 0 {
		return tea.Quit
	}
	return nil
}

// Update handles key presses and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if m.paginator.OnLastPage() {
				m.done = true
				return m, tea.Quit
			}
			m.paginator.NextPage()
		case key.Matches(msg, m.keys.Prev):
			m.paginator.PrevPage()
		}
	}

	return m, nil
}

// View renders the current page, the page dots and the help bar. Once the
// user has left, only the page stays on screen.
func (m Model) View() string {
	if len(m.pages) == 0 {
		return ""
	}
	if m.done {
		return pageStyle.Render(strings.TrimRight(m.pages[m.paginator.Page], "\n")) + "\n"
	}

	var b strings.Builder
	header := fmt.Sprintf("Страница %d из %d", m.paginator.Page+1, m.paginator.TotalPages)
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(pageStyle.Render(strings.TrimRight(m.pages[m.paginator.Page], "\n")))
	b.WriteString("\n  ")
	b.WriteString(m.paginator.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
