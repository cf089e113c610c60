package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/crmlink/hubspot"
	"github.com/harperreed/crmlink/models"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("HUBSPOT ITEMS"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(m.table.View())
	s.WriteString("\n")

	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, name := range filterNames {
		label := fmt.Sprintf("%s (%d)", name, m.count(Filter(i)))
		if Filter(i) == m.filter {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderListHelp() string {
	return helpStyle.Render("tab: switch view • ↑/↓: move • q: quit")
}

func itemColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Type", Width: 8},
		{Title: "Email / Website", Width: 30},
		{Title: "Phone / Industry", Width: 20},
	}
}

func (m Model) rows() []table.Row {
	var rows []table.Row
	for _, item := range m.items {
		if !m.filter.matches(item) {
			continue
		}

		row := table.Row{hubspot.DisplayName(item), string(item.Type)}
		if item.Type == models.ItemContact {
			row = append(row, deref(item.Email), deref(item.Phone))
		} else {
			row = append(row, deref(item.Website), deref(item.Industry))
		}
		rows = append(rows, row)
	}
	return rows
}

func (m Model) count(f Filter) int {
	n := 0
	for _, item := range m.items {
		if f.matches(item) {
			n++
		}
	}
	return n
}

func (f Filter) matches(item models.IntegrationItem) bool {
	switch f {
	case FilterContacts:
		return item.Type == models.ItemContact
	case FilterCompanies:
		return item.Type == models.ItemCompany
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
