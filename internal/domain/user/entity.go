package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the users table
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name         string         `gorm:"size:120;not null"`
	Email        string         `gorm:"size:255;not null;uniqueIndex"`
	Phone        sql.NullString `gorm:"size:32"`
	PasswordHash string         `gorm:"not null"`
	Role         string         `gorm:"size:20;not null;default:'CITIZEN'"`
	RtID         *string        `gorm:"column:rt_id;size:32;index"` // jurisdiction tag
	Profile      string         `gorm:"size:500"`
	IsActive     bool           `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RtIDValue returns the jurisdiction tag or an empty string.
func (u User) RtIDValue() string {
	if u.RtID == nil {
		return ""
	}
	return *u.RtID
}
