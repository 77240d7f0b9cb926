package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type constants follow the format: domain.action
const (
	EventTypeMessageCreated = "message.created"
	EventTypeMessageRead    = "message.read"
)

const AggregateTypeChat = "chat"

type Author struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Role    string    `json:"role"`
	Profile string    `json:"profile,omitempty"`
}

type MessageCreatedPayload struct {
	MessageID uuid.UUID `json:"message_id"`
	ChatID    uuid.UUID `json:"chat_id"`
	UserID    uuid.UUID `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	Author    *Author   `json:"author,omitempty"`
}

type MessageReadPayload struct {
	MessageID uuid.UUID `json:"message_id"`
	ChatID    uuid.UUID `json:"chat_id"`
	ReaderID  uuid.UUID `json:"reader_id"`
	ReadAt    time.Time `json:"read_at"`
}
