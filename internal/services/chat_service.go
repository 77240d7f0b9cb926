package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"rt-portal/internal/domain"
	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	"rt-portal/internal/domain/report"
	"rt-portal/internal/events"
	"rt-portal/internal/metrics"
	"rt-portal/internal/repository"
	portal_errors "rt-portal/pkg/errors"
	"rt-portal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUnreadCountBatch caps the number of reports in one unread-count lookup.
const MaxUnreadCountBatch = 100

type ChatEventPublisher interface {
	PublishMessageCreated(ctx context.Context, p events.MessageCreatedPayload) error
	PublishMessageRead(ctx context.Context, p events.MessageReadPayload) error
}

// ChatService owns the access rules around report chats. A citizen may act on
// the chats of reports they filed; an RT_ADMIN may act on the chats of reports
// filed by residents of the same RT.
type ChatService struct {
	chatRepo   repository.ChatRepository
	reportRepo repository.ReportRepository
	publisher  ChatEventPublisher
}

func NewChatService(chatRepo repository.ChatRepository, reportRepo repository.ReportRepository, publisher ChatEventPublisher) *ChatService {
	return &ChatService{
		chatRepo:   chatRepo,
		reportRepo: reportRepo,
		publisher:  publisher,
	}
}

func (s *ChatService) GetMessages(ctx context.Context, actor Actor, reportID uuid.UUID) ([]message.Message, error) {
	if _, err := s.authorizeReport(ctx, actor, reportID); err != nil {
		return nil, err
	}

	c, err := s.chatRepo.GetChatIDFromReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return []message.Message{}, nil
	}
	return s.chatRepo.GetMessagesFromChatID(ctx, c.ID)
}

// StartChat returns the report's chat, creating it when absent. created
// reports whether this call inserted the row.
func (s *ChatService) StartChat(ctx context.Context, actor Actor, reportID uuid.UUID) (chat.Chat, bool, error) {
	if _, err := s.authorizeReport(ctx, actor, reportID); err != nil {
		return chat.Chat{}, false, err
	}

	existing, err := s.chatRepo.GetChatIDFromReportID(ctx, reportID)
	if err != nil {
		return chat.Chat{}, false, err
	}
	if existing != nil {
		c, err := s.chatRepo.GetChatByID(ctx, existing.ID)
		if err != nil {
			return chat.Chat{}, false, err
		}
		return c, false, nil
	}

	created, err := s.chatRepo.StartChat(ctx, reportID)
	if err != nil {
		if !errors.Is(err, portal_errors.ErrAlreadyExists) {
			return chat.Chat{}, false, err
		}
		// lost the race against a concurrent start
		winner, readErr := s.chatRepo.GetChatIDFromReportID(ctx, reportID)
		if readErr != nil {
			return chat.Chat{}, false, readErr
		}
		if winner == nil {
			return chat.Chat{}, false, err
		}
		c, readErr := s.chatRepo.GetChatByID(ctx, winner.ID)
		if readErr != nil {
			return chat.Chat{}, false, readErr
		}
		return c, false, nil
	}

	metrics.ChatsStarted.Inc()
	logger.GetGlobalLogger().WithContext(ctx).Info("chat started",
		zap.String("chat_id", created.ID.String()),
		zap.String("report_id", reportID.String()),
	)
	return created, true, nil
}

func (s *ChatService) GetChatID(ctx context.Context, actor Actor, reportID uuid.UUID) (*uuid.UUID, error) {
	if _, err := s.authorizeReport(ctx, actor, reportID); err != nil {
		return nil, err
	}

	c, err := s.chatRepo.GetChatIDFromReportID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	id := c.ID
	return &id, nil
}

// HasUnread reports whether any chat in the actor's RT holds a message the
// actor did not write and nobody has read yet. Actors without an RT have no
// chats in scope.
func (s *ChatService) HasUnread(ctx context.Context, actor Actor) (bool, error) {
	if actor.RtID == nil || *actor.RtID == "" {
		metrics.UnreadChecks.WithLabelValues("clear").Inc()
		return false, nil
	}

	unread, err := s.chatRepo.HasUnread(ctx, actor.UserID, actor.RtID)
	if err != nil {
		return false, err
	}
	if unread {
		metrics.UnreadChecks.WithLabelValues("unread").Inc()
	} else {
		metrics.UnreadChecks.WithLabelValues("clear").Inc()
	}
	return unread, nil
}

func (s *ChatService) SendMessage(ctx context.Context, actor Actor, chatID uuid.UUID, content string) (message.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > domain.MaxMessageLength {
		return message.Message{}, fmt.Errorf("%w: message must be between 1 and %d characters", portal_errors.ErrInvalidInput, domain.MaxMessageLength)
	}

	if _, err := s.authorizeChat(ctx, actor, chatID); err != nil {
		return message.Message{}, err
	}

	saved, err := s.chatRepo.SaveMessage(ctx, content, actor.UserID, chatID)
	if err != nil {
		return message.Message{}, err
	}
	metrics.MessagesSaved.WithLabelValues(string(actor.Role)).Inc()

	payload := events.MessageCreatedPayload{
		MessageID: saved.ID,
		ChatID:    saved.ChatID,
		UserID:    saved.UserID,
		Message:   saved.Content,
		IsRead:    saved.IsRead,
		CreatedAt: saved.CreatedAt,
	}
	if saved.User != nil {
		payload.Author = &events.Author{
			ID:      saved.User.ID,
			Name:    saved.User.Name,
			Role:    saved.User.Role,
			Profile: saved.User.Profile,
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishMessageCreated(ctx, payload); err != nil {
			s.publishFailed(ctx, events.EventTypeMessageCreated, err)
		}
	}
	return saved, nil
}

// MarkMessageAsRead flags a message as read by its counterpart. Authors cannot
// mark their own messages. Marking an already read message is a no-op.
func (s *ChatService) MarkMessageAsRead(ctx context.Context, actor Actor, messageID uuid.UUID) error {
	m, err := s.chatRepo.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.Chat == nil || m.Chat.Report == nil {
		return portal_errors.ErrNotFound
	}
	if !canAccess(actor, *m.Chat.Report) {
		return portal_errors.ErrForbidden
	}
	if m.UserID == actor.UserID {
		return fmt.Errorf("%w: cannot mark your own message as read", portal_errors.ErrForbidden)
	}
	if m.IsRead {
		return nil
	}

	if err := s.chatRepo.MarkMessageAsRead(ctx, messageID); err != nil {
		return err
	}
	metrics.MessagesRead.Inc()

	if s.publisher != nil {
		err := s.publisher.PublishMessageRead(ctx, events.MessageReadPayload{
			MessageID: m.ID,
			ChatID:    m.ChatID,
			ReaderID:  actor.UserID,
			ReadAt:    time.Now().UTC(),
		})
		if err != nil {
			s.publishFailed(ctx, events.EventTypeMessageRead, err)
		}
	}
	return nil
}

// UnreadCounts returns, per report, how many messages the actor has not read.
// Every requested report must be accessible to the actor.
func (s *ChatService) UnreadCounts(ctx context.Context, actor Actor, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if len(reportIDs) > MaxUnreadCountBatch {
		return nil, fmt.Errorf("%w: at most %d report ids per request", portal_errors.ErrInvalidInput, MaxUnreadCountBatch)
	}

	seen := make(map[uuid.UUID]struct{}, len(reportIDs))
	unique := make([]uuid.UUID, 0, len(reportIDs))
	for _, id := range reportIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	for _, id := range unique {
		if _, err := s.authorizeReport(ctx, actor, id); err != nil {
			return nil, err
		}
	}
	return s.chatRepo.CountUnreadByReport(ctx, actor.UserID, unique)
}

// CanAccessChat is used by the websocket layer before subscribing a client.
func (s *ChatService) CanAccessChat(ctx context.Context, actor Actor, chatID uuid.UUID) (bool, error) {
	_, err := s.authorizeChat(ctx, actor, chatID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, portal_errors.ErrForbidden), errors.Is(err, portal_errors.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *ChatService) authorizeReport(ctx context.Context, actor Actor, reportID uuid.UUID) (report.Report, error) {
	rep, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return report.Report{}, err
	}
	if !canAccess(actor, rep) {
		return report.Report{}, portal_errors.ErrForbidden
	}
	return rep, nil
}

func (s *ChatService) authorizeChat(ctx context.Context, actor Actor, chatID uuid.UUID) (chat.Chat, error) {
	c, err := s.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return chat.Chat{}, err
	}
	if c.Report == nil {
		return chat.Chat{}, portal_errors.ErrNotFound
	}
	if !canAccess(actor, *c.Report) {
		return chat.Chat{}, portal_errors.ErrForbidden
	}
	return c, nil
}

func (s *ChatService) publishFailed(ctx context.Context, eventType string, err error) {
	metrics.EventPublishFailures.WithLabelValues(eventType).Inc()
	logger.GetGlobalLogger().WithContext(ctx).Warn("failed to publish chat event",
		zap.String("event_type", eventType),
		zap.Error(err),
	)
}

func canAccess(actor Actor, rep report.Report) bool {
	if rep.UserID == actor.UserID {
		return true
	}
	if !actor.IsAdmin() || actor.RtID == nil || rep.User == nil || rep.User.RtID == nil {
		return false
	}
	return *actor.RtID != "" && *actor.RtID == *rep.User.RtID
}
