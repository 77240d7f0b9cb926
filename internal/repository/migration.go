package repository

import (
	"fmt"

	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	"rt-portal/internal/domain/report"
	"rt-portal/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every table owned by the portal, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&report.Report{},
		&chat.Chat{},
		&message.Message{},
	}
}

// InitSchema handles the database schema migration.
// It runs gorm auto-migration and then creates the indexes gorm cannot express.
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// Partial index backing the unread badge lookups.
	unreadIdx := `CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages (chat_id, user_id) WHERE is_read = false;`
	if err := db.Exec(unreadIdx).Error; err != nil {
		return fmt.Errorf("failed to create index idx_messages_unread: %w", err)
	}

	return nil
}
