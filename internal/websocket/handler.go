package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"rt-portal/internal/events"
	"rt-portal/internal/services"
	"rt-portal/internal/transport/httpdto"
	"rt-portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const maxFrameSize = 4096

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (services.Actor, error)
}

type ChatAccess interface {
	CanAccessChat(ctx context.Context, actor services.Actor, chatID uuid.UUID) (bool, error)
}

// Frame is a client to server control message.
type Frame struct {
	Action string `json:"action"`
	ChatID string `json:"chat_id"`
}

// Reply acknowledges a Frame.
type Reply struct {
	Type   string `json:"type"`
	ChatID string `json:"chat_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Handler struct {
	auth     Authenticator
	access   ChatAccess
	hub      *Hub
	log      *eventLogger
	upgrader websocket.Upgrader
}

func NewHandler(auth Authenticator, access ChatAccess, hub *Hub, l *logger.Logger) *Handler {
	return &Handler{
		auth:   auth,
		access: access,
		hub:    hub,
		log:    newEventLogger(l),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Connect upgrades GET /ws?token=... and serves subscribe/unsubscribe frames
// until the connection closes.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	actor, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		status := services.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			c.JSON(status, httpdto.NewErrorResponse("internal server error", "INTERNAL_ERROR"))
			return
		}
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("upgrade_failed", actor.UserID, "", zap.Error(err))
		return
	}

	client := NewClient(conn, actor.UserID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	go client.WriteLoop(ctx)
	h.log.Info("connected", actor.UserID, client.ID)

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("read_failed", actor.UserID, client.ID, zap.Error(err))
			}
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		h.handleFrame(ctx, actor, client, data)
	}

	h.hub.Unregister(client)
	h.log.Info("disconnected", actor.UserID, client.ID)
}

func (h *Handler) handleFrame(ctx context.Context, actor services.Actor, client *Client, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		h.reply(client, Reply{Type: "error", Error: "malformed frame"})
		return
	}

	chatID, err := uuid.Parse(frame.ChatID)
	if err != nil {
		h.reply(client, Reply{Type: "error", Error: "invalid chat_id"})
		return
	}
	channel := events.ChatChannel(chatID)

	switch frame.Action {
	case "subscribe":
		ok, err := h.access.CanAccessChat(ctx, actor, chatID)
		if err != nil {
			h.log.Error("access_check_failed", actor.UserID, client.ID, err, zap.String("chat_id", frame.ChatID))
			h.reply(client, Reply{Type: "error", ChatID: frame.ChatID, Error: "internal server error"})
			return
		}
		if !ok {
			h.reply(client, Reply{Type: "error", ChatID: frame.ChatID, Error: "forbidden"})
			return
		}
		h.hub.Subscribe(client, channel)
		h.reply(client, Reply{Type: "subscribed", ChatID: frame.ChatID})
	case "unsubscribe":
		h.hub.Unsubscribe(client, channel)
		h.reply(client, Reply{Type: "unsubscribed", ChatID: frame.ChatID})
	default:
		h.reply(client, Reply{Type: "error", Error: "unknown action"})
	}
}

func (h *Handler) reply(client *Client, r Reply) {
	payload, err := json.Marshal(r)
	if err != nil {
		return
	}
	client.SendMessage(payload)
}
