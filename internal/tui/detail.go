package tui

import (
	"strings"

	"chronoline/internal/chrono"
	"chronoline/internal/item"

	"github.com/charmbracelet/lipgloss"
)

// detail renders the selected item's panel, exactly detailRows tall.
func (m Model) detail(it item.Item) string {
	lines := []string{
		titleStyle.Render(it.Name) + mutedStyle.Render("  "+it.Kind.String()+"  "+chrono.FormatRange(it.StartDate, it.EndDate, m.era)),
	}
	var meta []string
	if it.Category != "" {
		meta = append(meta, "category: "+it.Category)
	}
	if it.Person != nil {
		if it.Person.PeriodID != "" {
			meta = append(meta, "period: "+m.nameOf(it.Person.PeriodID))
		}
		if len(it.Person.Connections) > 0 {
			names := make([]string, len(it.Person.Connections))
			for i, id := range it.Person.Connections {
				names[i] = m.nameOf(id)
			}
			meta = append(meta, "connections: "+strings.Join(names, ", "))
		}
	}
	if len(meta) > 0 {
		lines = append(lines, mutedStyle.Render(strings.Join(meta, "  ")))
	}
	if desc := renderMarkdown(it.Description, m.width-2); desc != "" {
		lines = append(lines, strings.Split(desc, "\n")...)
	}

	body := detailRows - 1 // top border
	if len(lines) > body {
		lines = lines[:body]
	}
	for len(lines) < body {
		lines = append(lines, "")
	}
	return detailStyle.Width(m.width).Render(
		lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(lines, "\n")))
}

// nameOf resolves an item ID to its name, or returns the ID when it is unknown.
func (m Model) nameOf(id string) string {
	if it, ok := m.chart.Snapshot().Lookup(id); ok {
		return it.Name
	}
	return id
}
