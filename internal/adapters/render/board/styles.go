package board

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	orderID  lipgloss.Style
	detail   lipgloss.Style
	meta     lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	terminal lipgloss.Style
	announce lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		orderID:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		terminal: lipgloss.NewStyle().Faint(true),
		announce: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	}
}

// statusColor is the ANSI color per order stage, from fresh to done.
func statusColor(status string) lipgloss.Color {
	switch status {
	case "confirmed":
		return lipgloss.Color("39")
	case "preparing":
		return lipgloss.Color("214")
	case "ready":
		return lipgloss.Color("228")
	case "picked_up":
		return lipgloss.Color("141")
	case "delivered":
		return lipgloss.Color("78")
	case "cancelled":
		return lipgloss.Color("203")
	default:
		return lipgloss.Color("252")
	}
}
