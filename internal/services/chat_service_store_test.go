package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rt-portal/internal/domain"
	"rt-portal/internal/domain/report"
	"rt-portal/internal/domain/user"
	"rt-portal/internal/repository"
	"rt-portal/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStoreBackedService(t *testing.T) (*services.ChatService, services.Actor, report.Report) {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.InitSchema(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	users := repository.NewUserRepository(db)
	reports := repository.NewReportRepository(db)

	owner := user.User{Name: "Budi", Email: "budi@example.com", PasswordHash: "x", Role: string(domain.RoleCitizen), RtID: strPtr("RT01"), IsActive: true}
	require.NoError(t, users.Create(ctx, &owner))
	rep := report.Report{UserID: owner.ID, Title: "Lampu jalan mati", Category: string(domain.ReportCategoryLighting)}
	require.NoError(t, reports.Create(ctx, &rep))

	svc := services.NewChatService(repository.NewChatRepository(db), reports, nil)
	return svc, services.ActorFromUser(owner), rep
}

func TestStartChat_ExistingChatKeepsStoredFields(t *testing.T) {
	svc, owner, rep := newStoreBackedService(t)
	ctx := context.Background()

	first, created, err := svc.StartChat(ctx, owner, rep.ID)
	require.NoError(t, err)
	require.True(t, created)
	require.False(t, first.CreatedAt.IsZero())

	second, created, err := svc.StartChat(ctx, owner, rep.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, rep.ID, second.ReportID)
	assert.False(t, second.CreatedAt.IsZero())
	assert.WithinDuration(t, first.CreatedAt, second.CreatedAt, time.Second)
}
