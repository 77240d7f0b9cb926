package message

import (
	"time"

	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/user"
	"rt-portal/pkg/id"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message represents the messages table
type Message struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Seq       int64      `gorm:"not null;index:idx_messages_chat_order,priority:3"` // snowflake, breaks created_at ties
	ChatID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_chat_order,priority:1"`
	Chat      *chat.Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	User      *user.User `gorm:"foreignKey:UserID"`
	Content   string     `gorm:"column:message;type:text;not null"`
	IsRead    bool       `gorm:"not null;default:false;index"`
	CreatedAt time.Time  `gorm:"index:idx_messages_chat_order,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Seq == 0 {
		m.Seq = id.Next()
	}
	return nil
}
