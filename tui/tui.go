// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Browses fetched HubSpot items in a table with contact/company tabs
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmlink/models"
)

// Filter selects which items the table shows
type Filter int

const (
	FilterAll Filter = iota
	FilterContacts
	FilterCompanies
)

var filterNames = []string{"All", "Contacts", "Companies"}

// Model is the main bubbletea model
type Model struct {
	items  []models.IntegrationItem
	filter Filter
	table  table.Model

	width  int
	height int
}

// NewModel creates a new TUI model over already-fetched items
func NewModel(items []models.IntegrationItem) Model {
	m := Model{
		items:  items,
		filter: FilterAll,
		width:  100,
		height: 24,
	}
	m.table = table.New(
		table.WithColumns(itemColumns()),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)
	m.table.SetStyles(tableStyles())
	m.table.SetRows(m.rows())
	return m
}

// Run starts the full-screen item browser
func Run(items []models.IntegrationItem) error {
	_, err := tea.NewProgram(NewModel(items), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			return m.setFilter((m.filter + 1) % Filter(len(filterNames))), nil
		case "shift+tab":
			return m.setFilter((m.filter + Filter(len(filterNames)) - 1) % Filter(len(filterNames))), nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.renderListView()
}

// Filter returns the active tab
func (m Model) Filter() Filter {
	return m.filter
}

func (m Model) setFilter(f Filter) Model {
	m.filter = f
	m.table.SetRows(m.rows())
	m.table.SetCursor(0)
	return m
}

func (m Model) tableHeight() int {
	if m.height <= 10 {
		return 5
	}
	return m.height - 10
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	return s
}
