package api

import (
	"context"
	"fmt"
	"time"

	"github.com/ridebird/ride-cli/internal/cache"
	"github.com/ridebird/ride-cli/internal/domain"
)

type messagePayload struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sent_at"`
	Read        bool      `json:"read"`
}

func (p messagePayload) toDomain() domain.ChatMessage {
	return domain.ChatMessage{
		ID:          domain.MessageID(p.ID),
		TripID:      domain.TripID(p.TripID),
		SenderID:    domain.UserID(p.SenderID),
		RecipientID: domain.UserID(p.RecipientID),
		Body:        p.Body,
		SentAt:      p.SentAt,
		Read:        p.Read,
	}
}

type conversationPayload struct {
	TripID      string          `json:"trip_id"`
	Counterpart userPayload     `json:"counterpart"`
	LastMessage *messagePayload `json:"last_message"`
	UnreadCount int             `json:"unread_count"`
}

func (p conversationPayload) toDomain() domain.Conversation {
	conv := domain.Conversation{
		TripID:      domain.TripID(p.TripID),
		Counterpart: p.Counterpart.toDomain(),
		UnreadCount: p.UnreadCount,
	}
	if p.LastMessage != nil {
		last := p.LastMessage.toDomain()
		conv.LastMessage = &last
	}
	return conv
}

func (c *Client) Chats(ctx context.Context) ([]domain.Conversation, error) {
	value, err := c.cache.Get(ctx, ChatsKey(), func(ctx context.Context) (any, error) {
		var payloads []conversationPayload
		if err := c.http.GetJSON(ctx, "/chats", &payloads); err != nil {
			return nil, err
		}
		conversations := make([]domain.Conversation, 0, len(payloads))
		for _, p := range payloads {
			conversations = append(conversations, p.toDomain())
		}
		return conversations, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	return value.([]domain.Conversation), nil
}

func messagesPath(tripID domain.TripID, counterpartID domain.UserID) string {
	return fmt.Sprintf("/chats/%s/%s/messages", tripID, counterpartID)
}

// MessagesFetch is the fetch function for a conversation's messages key,
// shared by the blocking read and the subscription-driven chat view.
func (c *Client) MessagesFetch(tripID domain.TripID, counterpartID domain.UserID) cache.FetchFunc {
	return func(ctx context.Context) (any, error) {
		var payloads []messagePayload
		if err := c.http.GetJSON(ctx, messagesPath(tripID, counterpartID), &payloads); err != nil {
			return nil, err
		}
		messages := make([]domain.ChatMessage, 0, len(payloads))
		for _, p := range payloads {
			messages = append(messages, p.toDomain())
		}
		return messages, nil
	}
}

func (c *Client) Messages(ctx context.Context, tripID domain.TripID, counterpartID domain.UserID) ([]domain.ChatMessage, error) {
	value, err := c.cache.Get(ctx, MessagesKey(tripID, counterpartID), c.MessagesFetch(tripID, counterpartID))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return value.([]domain.ChatMessage), nil
}

func (c *Client) SendMessage(ctx context.Context, tripID domain.TripID, counterpartID domain.UserID, body string) (domain.ChatMessage, error) {
	payload := map[string]string{"body": body}

	value, err := c.cache.Write(ctx, sendMessageKey(tripID, counterpartID), func(ctx context.Context) (any, error) {
		var sent messagePayload
		if err := c.http.PostJSON(ctx, messagesPath(tripID, counterpartID), payload, &sent); err != nil {
			return nil, err
		}
		return sent.toDomain(), nil
	})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("send message: %w", err)
	}

	return value.(domain.ChatMessage), nil
}

func (c *Client) ChatUnreadCount(ctx context.Context) (int, error) {
	value, err := c.cache.Get(ctx, ChatUnreadKey(), func(ctx context.Context) (any, error) {
		var payload countPayload
		if err := c.http.GetJSON(ctx, "/chats/unread-count", &payload); err != nil {
			return nil, err
		}
		return payload.Count, nil
	})
	if err != nil {
		return 0, fmt.Errorf("chat unread count: %w", err)
	}

	return value.(int), nil
}

func (c *Client) MarkChatRead(ctx context.Context, tripID domain.TripID, counterpartID domain.UserID) error {
	_, err := c.cache.Write(ctx, cache.K("chats", "read"), func(ctx context.Context) (any, error) {
		return nil, c.http.PostJSON(ctx, fmt.Sprintf("/chats/%s/%s/read", tripID, counterpartID), nil, nil)
	})
	if err != nil {
		return fmt.Errorf("mark chat read: %w", err)
	}
	return nil
}
