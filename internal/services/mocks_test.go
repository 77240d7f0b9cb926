package services_test

import (
	"context"

	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	"rt-portal/internal/domain/report"
	"rt-portal/internal/domain/user"
	"rt-portal/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) SaveMessage(ctx context.Context, content string, userID, chatID uuid.UUID) (message.Message, error) {
	args := m.Called(ctx, content, userID, chatID)
	return args.Get(0).(message.Message), args.Error(1)
}

func (m *MockChatRepository) GetChatIDFromReportID(ctx context.Context, reportID uuid.UUID) (*chat.Chat, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Chat), args.Error(1)
}

func (m *MockChatRepository) GetMessagesFromChatID(ctx context.Context, chatID uuid.UUID) ([]message.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]message.Message), args.Error(1)
}

func (m *MockChatRepository) MarkMessageAsRead(ctx context.Context, messageID uuid.UUID) error {
	return m.Called(ctx, messageID).Error(0)
}

func (m *MockChatRepository) StartChat(ctx context.Context, reportID uuid.UUID) (chat.Chat, error) {
	args := m.Called(ctx, reportID)
	return args.Get(0).(chat.Chat), args.Error(1)
}

func (m *MockChatRepository) HasUnread(ctx context.Context, excludeUserID uuid.UUID, rtID *string) (bool, error) {
	args := m.Called(ctx, excludeUserID, rtID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRepository) CountUnreadByReport(ctx context.Context, excludeUserID uuid.UUID, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, excludeUserID, reportIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockChatRepository) GetChatByID(ctx context.Context, chatID uuid.UUID) (chat.Chat, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(chat.Chat), args.Error(1)
}

func (m *MockChatRepository) GetMessageByID(ctx context.Context, messageID uuid.UUID) (message.Message, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).(message.Message), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, r *report.Report) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id uuid.UUID) (report.Report, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(report.Report), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.User), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishMessageCreated(ctx context.Context, p events.MessageCreatedPayload) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPublisher) PublishMessageRead(ctx context.Context, p events.MessageReadPayload) error {
	return m.Called(ctx, p).Error(0)
}
