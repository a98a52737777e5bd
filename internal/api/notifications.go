package api

import (
	"context"
	"fmt"
	"time"

	"github.com/ridebird/ride-cli/internal/cache"
	"github.com/ridebird/ride-cli/internal/domain"
)

type notificationPayload struct {
	ID        string      `json:"id"`
	Kind      string      `json:"kind"`
	TripID    string      `json:"trip_id"`
	Actor     userPayload `json:"actor"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"created_at"`
	Read      bool        `json:"read"`
}

func (p notificationPayload) toDomain() domain.Notification {
	return domain.Notification{
		ID:        domain.NotificationID(p.ID),
		Kind:      domain.NotificationKind(p.Kind),
		TripID:    domain.TripID(p.TripID),
		Actor:     p.Actor.toDomain(),
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		Read:      p.Read,
	}
}

func (c *Client) Notifications(ctx context.Context) ([]domain.Notification, error) {
	value, err := c.cache.Get(ctx, NotificationsKey(), func(ctx context.Context) (any, error) {
		var payloads []notificationPayload
		if err := c.http.GetJSON(ctx, "/notifications", &payloads); err != nil {
			return nil, err
		}
		notifications := make([]domain.Notification, 0, len(payloads))
		for _, p := range payloads {
			notifications = append(notifications, p.toDomain())
		}
		return notifications, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return value.([]domain.Notification), nil
}

func (c *Client) NotificationsUnreadCount(ctx context.Context) (int, error) {
	value, err := c.cache.Get(ctx, NotificationsUnreadKey(), func(ctx context.Context) (any, error) {
		var payload countPayload
		if err := c.http.GetJSON(ctx, "/notifications/unread-count", &payload); err != nil {
			return nil, err
		}
		return payload.Count, nil
	})
	if err != nil {
		return 0, fmt.Errorf("notifications unread count: %w", err)
	}

	return value.(int), nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id domain.NotificationID) error {
	_, err := c.cache.Write(ctx, cache.K("notifications", "read"), func(ctx context.Context) (any, error) {
		return nil, c.http.PostJSON(ctx, "/notifications/"+string(id)+"/read", nil, nil)
	})
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
