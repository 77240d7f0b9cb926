package websocket

import (
	"context"

	"rt-portal/internal/events"
)

// RedisBridge relays chat events published by any API instance to the
// clients connected to this one.
type RedisBridge struct {
	subscriber events.Subscriber
	hub        *Hub
}

func NewRedisBridge(subscriber events.Subscriber, hub *Hub) *RedisBridge {
	return &RedisBridge{subscriber: subscriber, hub: hub}
}

func (b *RedisBridge) Run(ctx context.Context) error {
	return b.subscriber.Subscribe(ctx, []string{events.ChatChannelPattern}, func(channel string, payload []byte) {
		if _, ok := events.ChatIDFromChannel(channel); !ok {
			return
		}
		b.hub.Broadcast(channel, payload)
	})
}
