package database

import (
	"context"
	"errors"
	"fmt"

	"rt-portal/internal/domain"
	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	"rt-portal/internal/domain/report"
	"rt-portal/internal/domain/user"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedConfig struct {
	Password string
}

func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{Password: "Warga@123"}
}

type SeedResult struct {
	Users   []user.User
	Reports []report.Report
	Chats   []chat.Chat
}

type seedUser struct {
	name  string
	email string
	role  domain.Role
	rtID  string
}

var seedUsers = []seedUser{
	{name: "Ketua RT 01", email: "rt01@rt-portal.local", role: domain.RoleRTAdmin, rtID: "RT01"},
	{name: "Ketua RT 02", email: "rt02@rt-portal.local", role: domain.RoleRTAdmin, rtID: "RT02"},
	{name: "Budi Santoso", email: "budi@rt-portal.local", role: domain.RoleCitizen, rtID: "RT01"},
	{name: "Sari Wulandari", email: "sari@rt-portal.local", role: domain.RoleCitizen, rtID: "RT02"},
}

type seedReport struct {
	ownerEmail  string
	title       string
	description string
	category    domain.ReportCategory
}

var seedReports = []seedReport{
	{"budi@rt-portal.local", "Lampu jalan mati di Gang Mawar", "Sudah tiga malam lampu di ujung gang tidak menyala.", domain.ReportCategoryLighting},
	{"budi@rt-portal.local", "Saluran air tersumbat", "Got depan rumah no. 12 meluap saat hujan.", domain.ReportCategoryInfrastructure},
	{"sari@rt-portal.local", "Sampah menumpuk di pos ronda", "Belum diangkut sejak minggu lalu.", domain.ReportCategoryCleanliness},
}

// Seed creates demo accounts, reports and one open chat. It is safe to run
// repeatedly: existing rows, matched by email or report title, are reused.
func Seed(ctx context.Context, db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result := &SeedResult{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byEmail := make(map[string]user.User, len(seedUsers))
		for _, su := range seedUsers {
			rt := su.rtID
			u := user.User{
				Name:         su.name,
				Email:        su.email,
				PasswordHash: string(hash),
				Role:         string(su.role),
				RtID:         &rt,
				IsActive:     true,
			}
			if err := tx.Where("email = ?", su.email).FirstOrCreate(&u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", su.email, err)
			}
			byEmail[su.email] = u
			result.Users = append(result.Users, u)
		}

		for _, sr := range seedReports {
			owner := byEmail[sr.ownerEmail]
			r := report.Report{
				UserID:      owner.ID,
				Title:       sr.title,
				Description: sr.description,
				Category:    string(sr.category),
				Status:      string(domain.ReportStatusPending),
				Visibility:  string(domain.VisibilityPublic),
			}
			if err := tx.Where("user_id = ? AND title = ?", owner.ID, sr.title).FirstOrCreate(&r).Error; err != nil {
				return fmt.Errorf("seed report %q: %w", sr.title, err)
			}
			result.Reports = append(result.Reports, r)
		}

		first := result.Reports[0]
		var c chat.Chat
		err := tx.Where("report_id = ?", first.ID).First(&c).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c = chat.Chat{ReportID: first.ID}
			if err := tx.Create(&c).Error; err != nil {
				return fmt.Errorf("seed chat: %w", err)
			}
			greeting := message.Message{
				ChatID:  c.ID,
				UserID:  byEmail["rt01@rt-portal.local"].ID,
				Content: "Laporan sudah kami terima, petugas akan mengecek besok pagi.",
			}
			if err := tx.Create(&greeting).Error; err != nil {
				return fmt.Errorf("seed message: %w", err)
			}
		case err != nil:
			return fmt.Errorf("seed chat: %w", err)
		}
		result.Chats = append(result.Chats, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
