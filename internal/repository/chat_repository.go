package repository

import (
	"context"
	"errors"

	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	portal_errors "rt-portal/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &PostgresChatRepository{db: db}
}

func (r *PostgresChatRepository) SaveMessage(ctx context.Context, content string, userID, chatID uuid.UUID) (message.Message, error) {
	m := &message.Message{
		ChatID:  chatID,
		UserID:  userID,
		Content: content,
		IsRead:  false,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return message.Message{}, translateError(err)
	}

	var saved message.Message
	err := r.db.WithContext(ctx).
		Preload("User", publicUserFields).
		Where("id = ?", m.ID).
		First(&saved).Error
	if err != nil {
		return message.Message{}, translateError(err)
	}
	return saved, nil
}

func (r *PostgresChatRepository) GetChatIDFromReportID(ctx context.Context, reportID uuid.UUID) (*chat.Chat, error) {
	var c chat.Chat
	err := r.db.WithContext(ctx).
		Select("id").
		Where("report_id = ?", reportID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresChatRepository) GetMessagesFromChatID(ctx context.Context, chatID uuid.UUID) ([]message.Message, error) {
	messages := []message.Message{}
	err := r.db.WithContext(ctx).
		Preload("User", publicUserFields).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresChatRepository) MarkMessageAsRead(ctx context.Context, messageID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", messageID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Some drivers report zero affected rows when the value is unchanged.
	var count int64
	if err := r.db.WithContext(ctx).Model(&message.Message{}).Where("id = ?", messageID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return portal_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresChatRepository) StartChat(ctx context.Context, reportID uuid.UUID) (chat.Chat, error) {
	c := chat.Chat{ReportID: reportID}
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return chat.Chat{}, translateError(err)
	}
	return c, nil
}

func (r *PostgresChatRepository) HasUnread(ctx context.Context, excludeUserID uuid.UUID, rtID *string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Joins("JOIN chats ON chats.id = messages.chat_id").
		Joins("JOIN reports ON reports.id = chats.report_id").
		Joins("JOIN users ON users.id = reports.user_id").
		Where("messages.is_read = ?", false).
		Where("messages.user_id <> ?", excludeUserID)

	if rtID != nil {
		q = q.Where("users.rt_id = ?", *rtID)
	}

	var ids []uuid.UUID
	if err := q.Limit(1).Pluck("messages.id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

type unreadRow struct {
	ReportID uuid.UUID
	Unread   int64
}

func (r *PostgresChatRepository) CountUnreadByReport(ctx context.Context, excludeUserID uuid.UUID, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(reportIDs))
	if len(reportIDs) == 0 {
		return counts, nil
	}

	var rows []unreadRow
	err := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Select("chats.report_id AS report_id, COUNT(*) AS unread").
		Joins("JOIN chats ON chats.id = messages.chat_id").
		Where("messages.is_read = ?", false).
		Where("messages.user_id <> ?", excludeUserID).
		Where("chats.report_id IN ?", reportIDs).
		Group("chats.report_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, id := range reportIDs {
		counts[id] = 0
	}
	for _, row := range rows {
		counts[row.ReportID] = row.Unread
	}
	return counts, nil
}

func (r *PostgresChatRepository) GetChatByID(ctx context.Context, chatID uuid.UUID) (chat.Chat, error) {
	var c chat.Chat
	err := r.db.WithContext(ctx).
		Preload("Report").
		Preload("Report.User").
		Where("id = ?", chatID).
		First(&c).Error
	if err != nil {
		return chat.Chat{}, translateError(err)
	}
	return c, nil
}

func (r *PostgresChatRepository) GetMessageByID(ctx context.Context, messageID uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).
		Preload("Chat").
		Preload("Chat.Report").
		Preload("Chat.Report.User").
		Where("id = ?", messageID).
		First(&m).Error
	if err != nil {
		return message.Message{}, translateError(err)
	}
	return m, nil
}
