// Package tui renders invoices, stored rows and the query log for the terminal.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent  = lipgloss.Color("#2563EB") // blue
	fg      = lipgloss.Color("#E5E7EB")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#374151")
	success = lipgloss.Color("#22C55E")
	warning = lipgloss.Color("#F59E0B")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)

	labelStyle    = lipgloss.NewStyle().Foreground(dim).Width(12)
	valueStyle    = lipgloss.NewStyle().Foreground(fg)
	headStyle     = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	totalStyle    = lipgloss.NewStyle().Bold(true).Foreground(success)
	emptyStyle    = lipgloss.NewStyle().Italic(true).Foreground(warning)
	separatorLine = lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("─", 72))
)

type column struct {
	title string
	width int
	right bool
}

// cell fits s into w runes, cutting with an ellipsis.
func cell(s string, c column) string {
	r := []rune(s)
	if len(r) > c.width {
		r = append(r[:c.width-1], '…')
	}
	st := lipgloss.NewStyle().Width(c.width)
	if c.right {
		st = st.Align(lipgloss.Right)
	}
	return st.Render(string(r))
}

func row(cols []column, values []string, style lipgloss.Style) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = cell(values[i], c)
	}
	return style.Render(strings.Join(parts, " "))
}

func header(cols []column) string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	return row(cols, titles, headStyle)
}
