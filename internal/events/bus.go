package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ChatBus serializes chat events into envelopes and hands them to a Publisher
// on the chat's channel. The publisher is redis in production and the local
// websocket hub when redis is disabled.
type ChatBus struct {
	publisher Publisher
}

func NewChatBus(publisher Publisher) *ChatBus {
	return &ChatBus{publisher: publisher}
}

func (b *ChatBus) PublishMessageCreated(ctx context.Context, p MessageCreatedPayload) error {
	return b.publish(ctx, EventTypeMessageCreated, p.ChatID, p)
}

func (b *ChatBus) PublishMessageRead(ctx context.Context, p MessageReadPayload) error {
	return b.publish(ctx, EventTypeMessageRead, p.ChatID, p)
}

func (b *ChatBus) publish(ctx context.Context, eventType string, chatID uuid.UUID, payload any) error {
	env, err := NewEnvelope(eventType, AggregateTypeChat, chatID.String(), payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	channel := ChatChannel(chatID)
	if err := b.publisher.Publish(ctx, channel, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}
