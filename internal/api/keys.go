package api

import (
	"strconv"
	"time"

	"github.com/ridebird/ride-cli/internal/cache"
	"github.com/ridebird/ride-cli/internal/domain"
)

// Read keys. Every filter parameter the server sees is part of the tuple:
// two filters that produce different requests must never share a key, and
// invalidating the resource prefix still hits every variant of a listing.

func TripsSearchKey(filter domain.TripFilter) cache.Key {
	date := ""
	if !filter.Date.IsZero() {
		date = filter.Date.Format("2006-01-02")
	}
	return cache.K("trips", "search", filter.Origin, filter.Destination, date, strconv.Itoa(filter.Seats))
}

func MyTripsKey() cache.Key { return cache.K("trips", "mine") }

func ChatsKey() cache.Key { return cache.K("chats", "list") }

func ChatUnreadKey() cache.Key { return cache.K("chats", "unread") }

func MessagesKey(tripID domain.TripID, counterpartID domain.UserID) cache.Key {
	return cache.K("chats", "messages", string(tripID), string(counterpartID))
}

func NotificationsKey() cache.Key { return cache.K("notifications", "list") }

func NotificationsUnreadKey() cache.Key { return cache.K("notifications", "unread") }

func BookingsUnreadKey() cache.Key { return cache.K("bookings", "unread") }

// Mutation keys consumed by the invalidation table.

func bookingMutationKey(op string) cache.Key { return cache.K("bookings", op) }

func offerMutationKey(op string) cache.Key { return cache.K("offers", op) }

func tripMutationKey(op string) cache.Key { return cache.K("trips", op) }

func sendMessageKey(tripID domain.TripID, counterpartID domain.UserID) cache.Key {
	return cache.K("chats", "send", string(tripID), string(counterpartID))
}

// DefaultPolicy is the freshness and invalidation table for every key the
// client consumes. Booking and offer mutations stale the whole trips
// family plus the unread counters; sending a chat message stales that
// conversation, the chat list and the chat unread count in one prefix.
func DefaultPolicy() cache.Policy {
	return cache.Policy{
		Freshness: []cache.FreshnessRule{
			{Prefix: cache.K("chats", "unread"), Window: 15 * time.Second},
			{Prefix: cache.K("chats", "messages"), Window: 10 * time.Second},
			{Prefix: cache.K("notifications", "unread"), Window: 15 * time.Second},
			{Prefix: cache.K("bookings", "unread"), Window: 30 * time.Second},
		},
		Invalidation: []cache.InvalidationRule{
			{
				Mutation: cache.K("bookings"),
				Targets: []cache.Key{
					cache.K("trips"),
					cache.K("bookings", "unread"),
					cache.K("notifications", "unread"),
				},
			},
			{
				Mutation: cache.K("offers"),
				Targets: []cache.Key{
					cache.K("trips"),
					cache.K("bookings", "unread"),
					cache.K("notifications", "unread"),
				},
			},
			{
				Mutation: cache.K("trips"),
				Targets:  []cache.Key{cache.K("trips")},
			},
			{
				Mutation: cache.K("chats", "send"),
				Targets:  []cache.Key{cache.K("chats")},
			},
			{
				Mutation: cache.K("chats", "read"),
				Targets:  []cache.Key{cache.K("chats")},
			},
			{
				Mutation: cache.K("notifications", "read"),
				Targets:  []cache.Key{cache.K("notifications")},
			},
		},
	}
}

// PollInterval is the per-view polling cadence from the freshness table.
func PollInterval(key cache.Key) time.Duration {
	switch {
	case key.HasPrefix(cache.K("bookings", "unread")):
		return 60 * time.Second
	case key.HasPrefix(cache.K("chats")),
		key.HasPrefix(cache.K("notifications")):
		return 30 * time.Second
	default:
		return 30 * time.Second
	}
}
