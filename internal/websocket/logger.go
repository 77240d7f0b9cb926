package websocket

import (
	"rt-portal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// eventLogger tags websocket lifecycle events with the user and client ids.
type eventLogger struct {
	logger *zap.Logger
}

func newEventLogger(l *logger.Logger) *eventLogger {
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &eventLogger{logger: l.Logger.With(zap.String("component", "websocket"))}
}

func (l *eventLogger) Info(event string, userID uuid.UUID, clientID string, fields ...zap.Field) {
	l.logger.Info("websocket_event", l.fields(event, userID, clientID, fields)...)
}

func (l *eventLogger) Warn(event string, userID uuid.UUID, clientID string, fields ...zap.Field) {
	l.logger.Warn("websocket_warning", l.fields(event, userID, clientID, fields)...)
}

func (l *eventLogger) Error(event string, userID uuid.UUID, clientID string, err error, fields ...zap.Field) {
	l.logger.Error("websocket_error", l.fields(event, userID, clientID, append(fields, zap.Error(err)))...)
}

func (l *eventLogger) fields(event string, userID uuid.UUID, clientID string, extra []zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("event", event),
		zap.String("user_id", userID.String()),
		zap.String("client_id", clientID),
	}, extra...)
}
