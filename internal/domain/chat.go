package domain

import "time"

type MessageID string

type ChatMessage struct {
	ID          MessageID
	TripID      TripID
	SenderID    UserID
	RecipientID UserID
	Body        string
	SentAt      time.Time
	Read        bool
}

// Conversation is one chat thread: a trip plus the counterpart on the
// other side of it.
type Conversation struct {
	TripID      TripID
	Counterpart User
	LastMessage *ChatMessage
	UnreadCount int
}
