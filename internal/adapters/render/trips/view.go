package trips

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ridebird/ride-cli/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

// RenderList renders a trips listing for the terminal.
func RenderList(trips []domain.Trip, opts RenderOptions) string {
	s := newStyles()

	lines := []string{
		s.title.Render("Trips"),
		s.header.Render(fmt.Sprintf("results: %d", len(trips))),
	}

	if len(trips) == 0 {
		lines = append(lines, s.empty.Render("No trips match."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, trip := range trips {
		lines = append(lines, s.section.Render(renderTrip(trip, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTrip(trip domain.Trip, opts RenderOptions, s styles) string {
	parts := []string{
		s.route.Render(fmt.Sprintf("%s → %s", trip.Origin, trip.Destination)),
		s.detail.Render(fmt.Sprintf("  %s · driver %s (%.1f★)", formatDeparture(trip.DepartsAt, opts.Now), trip.Driver.FullName(), trip.Driver.Rating)),
		seatsLine(trip, s),
	}
	if trip.Comment != "" {
		parts = append(parts, s.detail.Render("  "+trip.Comment))
	}
	parts = append(parts, s.detail.Render("  id: "+string(trip.ID)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func seatsLine(trip domain.Trip, s styles) string {
	price := s.price.Render(fmt.Sprintf("%.0f %s/seat", trip.PricePerSeat, trip.Currency))
	if trip.SeatsFree() == 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, s.detail.Render("  "), s.full.Render("full"), s.detail.Render(" · "), price)
	}
	seats := s.detail.Render(fmt.Sprintf("  %d of %d seats free · ", trip.SeatsFree(), trip.Seats))
	return lipgloss.JoinHorizontal(lipgloss.Top, seats, price)
}

func formatDeparture(departsAt, now time.Time) string {
	if departsAt.IsZero() {
		return "departure unknown"
	}
	if now.IsZero() {
		return departsAt.Format("15:04 on 02 Jan")
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := departsAt.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return "today " + departsAt.Format("15:04")
	}

	return departsAt.Format("15:04 on 02 Jan")
}

// RenderStatus renders the signed-in summary with unread counters.
func RenderStatus(user *domain.User, chatUnread, notifUnread, bookingsUnread int) string {
	s := newStyles()

	if user == nil {
		return s.empty.Render("Not signed in. Run `ride login`.")
	}

	lines := []string{
		s.title.Render("Ridebird"),
		s.route.Render(fmt.Sprintf("Signed in as %s", user.FullName())),
		s.detail.Render("  phone: " + user.Phone),
	}
	if user.Email != "" {
		lines = append(lines, s.detail.Render("  email: "+user.Email))
	}
	lines = append(lines, counterLine("chats", chatUnread, s),
		counterLine("notifications", notifUnread, s),
		counterLine("bookings", bookingsUnread, s))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func counterLine(label string, count int, s styles) string {
	if count > 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, s.detail.Render("  "+label+": "), s.unread.Render(fmt.Sprintf("%d unread", count)))
	}
	return s.detail.Render("  " + label + ": no unread")
}

// RenderConversations renders the chat list.
func RenderConversations(conversations []domain.Conversation) string {
	s := newStyles()

	lines := []string{
		s.title.Render("Chats"),
		s.header.Render(fmt.Sprintf("conversations: %d", len(conversations))),
	}

	if len(conversations) == 0 {
		lines = append(lines, s.empty.Render("No conversations yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, conv := range conversations {
		lines = append(lines, s.section.Render(renderConversation(conv, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderConversation(conv domain.Conversation, s styles) string {
	header := s.route.Render(conv.Counterpart.FullName())
	if conv.UnreadCount > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ", s.unread.Render(fmt.Sprintf("(%d)", conv.UnreadCount)))
	}

	parts := []string{header, s.detail.Render("  trip: " + string(conv.TripID))}
	if conv.LastMessage != nil {
		preview := conv.LastMessage.Body
		if len(preview) > 60 {
			preview = strings.TrimSpace(preview[:60]) + "…"
		}
		parts = append(parts, s.detail.Render("  "+preview))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
