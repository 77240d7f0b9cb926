package database_test

import (
	"context"
	"fmt"
	"testing"

	"rt-portal/internal/domain"
	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	"rt-portal/internal/domain/user"
	"rt-portal/internal/repository"
	"rt-portal/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.InitSchema(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestSeed_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	cfg := &database.SeedConfig{Password: "rahasia"}

	first, err := database.Seed(ctx, db, cfg)
	require.NoError(t, err)
	second, err := database.Seed(ctx, db, cfg)
	require.NoError(t, err)

	assert.Len(t, second.Users, len(first.Users))
	for i := range first.Users {
		assert.Equal(t, first.Users[i].ID, second.Users[i].ID)
	}
	require.Len(t, second.Chats, 1)
	assert.Equal(t, first.Chats[0].ID, second.Chats[0].ID)

	var users, chats, messages int64
	require.NoError(t, db.Model(&user.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&chat.Chat{}).Count(&chats).Error)
	require.NoError(t, db.Model(&message.Message{}).Count(&messages).Error)
	assert.Equal(t, int64(len(first.Users)), users)
	assert.Equal(t, int64(1), chats)
	assert.Equal(t, int64(1), messages)
}

func TestSeed_AccountsAreUsable(t *testing.T) {
	db := newTestDB(t)
	result, err := database.Seed(context.Background(), db, &database.SeedConfig{Password: "rahasia"})
	require.NoError(t, err)

	jurisdictions := map[string]int{}
	for _, u := range result.Users {
		assert.True(t, u.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("rahasia")))
		if u.Role == string(domain.RoleRTAdmin) {
			jurisdictions[u.RtIDValue()]++
		}
	}
	assert.Equal(t, map[string]int{"RT01": 1, "RT02": 1}, jurisdictions)
	assert.NotEmpty(t, result.Reports)
}
