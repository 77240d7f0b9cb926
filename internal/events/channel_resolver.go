package events

import (
	"strings"

	"github.com/google/uuid"
)

const (
	ChannelPrefixChat  = "channel:chat:"
	ChatChannelPattern = ChannelPrefixChat + "*"
)

// ChatChannel is the pub/sub channel carrying every event of one chat.
func ChatChannel(chatID uuid.UUID) string {
	return ChannelPrefixChat + chatID.String()
}

// ChatIDFromChannel is the inverse of ChatChannel.
func ChatIDFromChannel(channel string) (uuid.UUID, bool) {
	if !strings.HasPrefix(channel, ChannelPrefixChat) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(channel, ChannelPrefixChat))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
