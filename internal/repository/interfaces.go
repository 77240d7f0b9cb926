package repository

import (
	"context"

	"github.com/google/uuid"

	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	"rt-portal/internal/domain/report"
	"rt-portal/internal/domain/user"
)

// ChatRepository is the data access layer for chats and their messages.
// It performs no business branching; access rules live in the service layer.
type ChatRepository interface {
	SaveMessage(ctx context.Context, content string, userID, chatID uuid.UUID) (message.Message, error)
	GetChatIDFromReportID(ctx context.Context, reportID uuid.UUID) (*chat.Chat, error)
	GetMessagesFromChatID(ctx context.Context, chatID uuid.UUID) ([]message.Message, error)
	MarkMessageAsRead(ctx context.Context, messageID uuid.UUID) error
	StartChat(ctx context.Context, reportID uuid.UUID) (chat.Chat, error)
	HasUnread(ctx context.Context, excludeUserID uuid.UUID, rtID *string) (bool, error)

	CountUnreadByReport(ctx context.Context, excludeUserID uuid.UUID, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	GetChatByID(ctx context.Context, chatID uuid.UUID) (chat.Chat, error)
	GetMessageByID(ctx context.Context, messageID uuid.UUID) (message.Message, error)
}

type ReportRepository interface {
	Create(ctx context.Context, r *report.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (report.Report, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}
