// Package handler provides HTTP handlers for the chat endpoints.
package handler

import (
	"context"
	"net/http"

	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	"rt-portal/internal/services"
	"rt-portal/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatService is the slice of services.ChatService the handler depends on.
type ChatService interface {
	GetMessages(ctx context.Context, actor services.Actor, reportID uuid.UUID) ([]message.Message, error)
	StartChat(ctx context.Context, actor services.Actor, reportID uuid.UUID) (chat.Chat, bool, error)
	GetChatID(ctx context.Context, actor services.Actor, reportID uuid.UUID) (*uuid.UUID, error)
	HasUnread(ctx context.Context, actor services.Actor) (bool, error)
	SendMessage(ctx context.Context, actor services.Actor, chatID uuid.UUID, content string) (message.Message, error)
	MarkMessageAsRead(ctx context.Context, actor services.Actor, messageID uuid.UUID) error
	UnreadCounts(ctx context.Context, actor services.Actor, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// ChatHandler translates chat HTTP requests into ChatService calls.
type ChatHandler struct {
	service ChatService
}

// NewChatHandler creates a chat handler.
func NewChatHandler(service ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// GetMessages returns the ordered history of a report's chat.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	reportID, ok := uuidParam(c, "reportId")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	msgs, err := h.service.GetMessages(c.Request.Context(), actor, reportID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ToMessageDTOs(msgs)))
}

// StartChat opens the chat of a report, or returns it when it already exists.
func (h *ChatHandler) StartChat(c *gin.Context) {
	reportID, ok := uuidParam(c, "reportId")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	created, isNew, err := h.service.StartChat(c.Request.Context(), actor, reportID)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	c.JSON(status, httpdto.NewSuccessResponse(httpdto.ToChatDTO(created)))
}

func (h *ChatHandler) GetChatID(c *gin.Context) {
	reportID, ok := uuidParam(c, "reportId")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	id, err := h.service.GetChatID(c.Request.Context(), actor, reportID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ToChatIDDTO(id)))
}

func (h *ChatHandler) HasUnread(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	unread, err := h.service.HasUnread(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(unread))
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	chatID, ok := uuidParam(c, "chatId")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	saved, err := h.service.SendMessage(c.Request.Context(), actor, chatID, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.ToMessageDTO(saved)))
}

func (h *ChatHandler) MarkMessageAsRead(c *gin.Context) {
	messageID, ok := uuidParam(c, "messageId")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.service.MarkMessageAsRead(c.Request.Context(), actor, messageID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// UnreadCounts returns per-report unread badges for a list page.
func (h *ChatHandler) UnreadCounts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req httpdto.UnreadCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.ReportIDs))
	for _, raw := range req.ReportIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid report id", errorCode(http.StatusBadRequest)))
			return
		}
		ids = append(ids, id)
	}

	counts, err := h.service.UnreadCounts(c.Request.Context(), actor, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ToUnreadCountMap(counts)))
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid "+name, errorCode(http.StatusBadRequest)))
		return uuid.Nil, false
	}
	return id, true
}

func requireActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := services.ActorFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", errorCode(http.StatusUnauthorized)))
		return services.Actor{}, false
	}
	return actor, true
}
