package report

import (
	"time"

	"rt-portal/internal/domain/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is an issue filed by a citizen.
type Report struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	User        *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"type:text"`
	Category    string     `gorm:"size:32;not null;default:'OTHER'"`
	Status      string     `gorm:"size:20;not null;default:'PENDING';index"`
	Visibility  string     `gorm:"size:10;not null;default:'public'"`
	UpvoteCount int        `gorm:"not null;default:0"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
