package httpdto

import (
	"time"

	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	"rt-portal/internal/domain/user"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Message string `json:"message" binding:"required,max=8000"`
}

type UnreadCountsRequest struct {
	ReportIDs []string `json:"reportIds" binding:"required,min=1,max=100,dive,uuid"`
}

type AuthorDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Profile string `json:"profile,omitempty"`
}

type MessageDTO struct {
	ID        string     `json:"id"`
	ChatID    string     `json:"chatId"`
	UserID    string     `json:"userId"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"isRead"`
	CreatedAt time.Time  `json:"createdAt"`
	User      *AuthorDTO `json:"user,omitempty"`
}

type ChatDTO struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"reportId"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatIDDTO struct {
	ID string `json:"id"`
}

func ToAuthorDTO(u *user.User) *AuthorDTO {
	if u == nil {
		return nil
	}
	return &AuthorDTO{
		ID:      u.ID.String(),
		Name:    u.Name,
		Role:    u.Role,
		Profile: u.Profile,
	}
}

func ToMessageDTO(m message.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID.String(),
		ChatID:    m.ChatID.String(),
		UserID:    m.UserID.String(),
		Message:   m.Content,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
		User:      ToAuthorDTO(m.User),
	}
}

func ToMessageDTOs(msgs []message.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ToMessageDTO(m))
	}
	return out
}

func ToChatDTO(c chat.Chat) ChatDTO {
	return ChatDTO{
		ID:        c.ID.String(),
		ReportID:  c.ReportID.String(),
		CreatedAt: c.CreatedAt,
	}
}

// ToChatIDDTO returns nil when the report has no chat, rendered as JSON null.
func ToChatIDDTO(id *uuid.UUID) *ChatIDDTO {
	if id == nil {
		return nil
	}
	return &ChatIDDTO{ID: id.String()}
}

// ToUnreadCountMap keys unread counts by report id.
func ToUnreadCountMap(counts map[uuid.UUID]int64) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for id, n := range counts {
		out[id.String()] = n
	}
	return out
}
