package chat

import (
	"time"

	"rt-portal/internal/domain/report"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is the messaging thread attached to a single report.
type Chat struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ReportID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_chats_report_id"`
	Report    *report.Report `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Chat) TableName() string {
	return "chats"
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
