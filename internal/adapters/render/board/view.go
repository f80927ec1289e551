package board

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/foodfast-cli/internal/domain"
)

type RenderOptions struct {
	Now time.Time
	// Viewer controls whose perspective the board takes: employees see
	// customer ids, customers see restaurant names.
	Viewer domain.Role
}

func renderView(orders []domain.Order, announcements []domain.Announcement, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("FoodFast Orders"),
		s.header.Render(fmt.Sprintf("orders: %d", len(orders))),
	}

	if len(orders) == 0 {
		lines = append(lines, s.empty.Render("No orders yet."))
	}

	for _, order := range orders {
		lines = append(lines, s.section.Render(renderOrder(order, opts, s)))
	}

	if len(announcements) > 0 {
		lines = append(lines, s.section.Render(renderAnnouncements(announcements, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderOrder(order domain.Order, opts RenderOptions, s styles) string {
	badge := lipgloss.NewStyle().Bold(true).Foreground(statusColor(string(order.Status)))

	head := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.orderID.Render(fmt.Sprintf("#%d", order.ID)),
		" ",
		badge.Render(string(order.Status)),
		" ",
		s.meta.Render(formatAge(order.CreatedAt, opts.Now)),
	)

	parts := []string{head}

	if detail := orderDetail(order, opts.Viewer); detail != "" {
		style := s.detail
		if order.Status.Terminal() {
			style = s.terminal
		}
		parts = append(parts, style.Render(detail))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func orderDetail(order domain.Order, viewer domain.Role) string {
	var fields []string

	if len(order.Items) > 0 {
		fields = append(fields, strings.Join(order.Items, ", "))
	}
	if order.TotalAmount > 0 {
		fields = append(fields, fmt.Sprintf("%.2f JOD", order.TotalAmount))
	}

	switch viewer {
	case domain.RoleEmployee:
		if order.CustomerID != 0 {
			fields = append(fields, fmt.Sprintf("customer %d", order.CustomerID))
		}
		if order.DeliveryAddress != "" {
			fields = append(fields, order.DeliveryAddress)
		}
	default:
		if order.RestaurantName != "" {
			fields = append(fields, order.RestaurantName)
		}
	}

	return strings.Join(fields, " | ")
}

func renderAnnouncements(announcements []domain.Announcement, opts RenderOptions, s styles) string {
	parts := []string{s.announce.Render("Announcements")}

	for _, a := range announcements {
		head := lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render(a.Title),
			" ",
			s.meta.Render(formatAge(a.CreatedAt, opts.Now)),
		)
		parts = append(parts, head, s.meta.Render(a.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func formatAge(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return ""
	}
	if now.IsZero() || createdAt.After(now) {
		return createdAt.Format("15:04")
	}

	age := now.Sub(createdAt)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		hours := int(math.Round(age.Hours()))
		return fmt.Sprintf("%dh ago", hours)
	default:
		return createdAt.Format("02 Jan 15:04")
	}
}
