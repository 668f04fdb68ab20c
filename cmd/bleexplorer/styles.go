package main

import "github.com/charmbracelet/lipgloss"

// styles is a trimmed copy of sfpw-tool's internal/tui/styles.go
// palette, scoped to what the browser view actually renders.
type styles struct {
	App          lipgloss.Style
	Title        lipgloss.Style
	ItemSelected lipgloss.Style
	Item         lipgloss.Style
	Dim          lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
}

func defaultStyles() styles {
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	dim := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	return styles{
		App: lipgloss.NewStyle().Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(highlight).
			Padding(0, 1),
		ItemSelected: lipgloss.NewStyle().Foreground(highlight).Bold(true),
		Item:         lipgloss.NewStyle(),
		Dim:          lipgloss.NewStyle().Foreground(dim),
		Label:        lipgloss.NewStyle().Foreground(dim).Width(14),
		Value:        lipgloss.NewStyle(),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		Help:         lipgloss.NewStyle().Foreground(dim).MarginTop(1),
	}
}
