package api

import (
	"testing"
	"time"

	"github.com/ridebird/ride-cli/internal/cache"
	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTripsSearchKeyIncludesFilterParameters(t *testing.T) {
	t.Parallel()

	key := TripsSearchKey(domain.TripFilter{
		Origin:      "Tallinn",
		Destination: "Tartu",
		Date:        time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC),
		Seats:       2,
	})
	assert.Equal(t, "trips/search/Tallinn/Tartu/2026-09-01/2", key.String())
	assert.True(t, key.HasPrefix(cache.K("trips")))

	blank := TripsSearchKey(domain.TripFilter{})
	assert.Equal(t, "trips/search////0", blank.String())

	assert.False(t, key.Equal(TripsSearchKey(domain.TripFilter{
		Origin:      "Tallinn",
		Destination: "Tartu",
		Date:        time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC),
		Seats:       4,
	})), "a different seats minimum is a different key")
}

func TestConversationKeysShareTheChatsPrefix(t *testing.T) {
	t.Parallel()

	prefix := cache.K("chats")
	assert.True(t, ChatsKey().HasPrefix(prefix))
	assert.True(t, ChatUnreadKey().HasPrefix(prefix))
	assert.True(t, MessagesKey("trip-1", "user-2").HasPrefix(prefix))
	assert.Equal(t, "chats/messages/trip-1/user-2", MessagesKey("trip-1", "user-2").String())
}

func TestPollInterval(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 60*time.Second, PollInterval(BookingsUnreadKey()))
	assert.Equal(t, 30*time.Second, PollInterval(ChatsKey()))
	assert.Equal(t, 30*time.Second, PollInterval(MessagesKey("trip-1", "user-2")))
	assert.Equal(t, 30*time.Second, PollInterval(NotificationsKey()))
	assert.Equal(t, 30*time.Second, PollInterval(MyTripsKey()))
}
