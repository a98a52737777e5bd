package trips

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	route   lipgloss.Style
	detail  lipgloss.Style
	price   lipgloss.Style
	full    lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	unread  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		route:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		price:   lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		full:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		unread:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}
