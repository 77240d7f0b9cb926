package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rt-portal/internal/domain"
	"rt-portal/internal/domain/chat"
	"rt-portal/internal/domain/message"
	"rt-portal/internal/domain/user"
	"rt-portal/internal/handler"
	"rt-portal/internal/services"
	portal_errors "rt-portal/pkg/errors"
)

type fakeChatService struct {
	getMessages  func(ctx context.Context, actor services.Actor, reportID uuid.UUID) ([]message.Message, error)
	startChat    func(ctx context.Context, actor services.Actor, reportID uuid.UUID) (chat.Chat, bool, error)
	getChatID    func(ctx context.Context, actor services.Actor, reportID uuid.UUID) (*uuid.UUID, error)
	hasUnread    func(ctx context.Context, actor services.Actor) (bool, error)
	sendMessage  func(ctx context.Context, actor services.Actor, chatID uuid.UUID, content string) (message.Message, error)
	markRead     func(ctx context.Context, actor services.Actor, messageID uuid.UUID) error
	unreadCounts func(ctx context.Context, actor services.Actor, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

func (f *fakeChatService) GetMessages(ctx context.Context, actor services.Actor, reportID uuid.UUID) ([]message.Message, error) {
	return f.getMessages(ctx, actor, reportID)
}

func (f *fakeChatService) StartChat(ctx context.Context, actor services.Actor, reportID uuid.UUID) (chat.Chat, bool, error) {
	return f.startChat(ctx, actor, reportID)
}

func (f *fakeChatService) GetChatID(ctx context.Context, actor services.Actor, reportID uuid.UUID) (*uuid.UUID, error) {
	return f.getChatID(ctx, actor, reportID)
}

func (f *fakeChatService) HasUnread(ctx context.Context, actor services.Actor) (bool, error) {
	return f.hasUnread(ctx, actor)
}

func (f *fakeChatService) SendMessage(ctx context.Context, actor services.Actor, chatID uuid.UUID, content string) (message.Message, error) {
	return f.sendMessage(ctx, actor, chatID, content)
}

func (f *fakeChatService) MarkMessageAsRead(ctx context.Context, actor services.Actor, messageID uuid.UUID) error {
	return f.markRead(ctx, actor, messageID)
}

func (f *fakeChatService) UnreadCounts(ctx context.Context, actor services.Actor, reportIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return f.unreadCounts(ctx, actor, reportIDs)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func decode(rec *httptest.ResponseRecorder) envelope {
	var env envelope
	ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
	return env
}

var _ = Describe("ChatHandler", func() {
	var (
		router   *gin.Engine
		svc      *fakeChatService
		actor    services.Actor
		withAuth bool
	)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		rt := "RT01"
		actor = services.Actor{UserID: uuid.New(), Role: domain.RoleRTAdmin, RtID: &rt}
		withAuth = true
		svc = &fakeChatService{}

		h := handler.NewChatHandler(svc)
		router = gin.New()
		api := router.Group("/api/chat", func(c *gin.Context) {
			if withAuth {
				c.Request = c.Request.WithContext(services.WithActor(c.Request.Context(), actor))
			}
			c.Next()
		})
		api.GET("/get/messages/:reportId", h.GetMessages)
		api.POST("/start/chat/:reportId", h.StartChat)
		api.GET("/get/chatId/:reportId", h.GetChatID)
		api.GET("/get/chat/unread", h.HasUnread)
		api.POST("/send/message/:chatId", h.SendMessage)
		api.PATCH("/read/message/:messageId", h.MarkMessageAsRead)
		api.POST("/get/chat/unread-counts", h.UnreadCounts)
	})

	Describe("GET /get/messages/:reportId", func() {
		It("returns the ordered history in camelCase", func() {
			reportID := uuid.New()
			chatID := uuid.New()
			author := &user.User{ID: actor.UserID, Name: "Pak RT", Role: "RT_ADMIN"}
			svc.getMessages = func(_ context.Context, got services.Actor, id uuid.UUID) ([]message.Message, error) {
				Expect(got).To(Equal(actor))
				Expect(id).To(Equal(reportID))
				return []message.Message{
					{ID: uuid.New(), ChatID: chatID, UserID: actor.UserID, User: author, Content: "pertama", CreatedAt: time.Now()},
					{ID: uuid.New(), ChatID: chatID, UserID: actor.UserID, User: author, Content: "kedua", CreatedAt: time.Now()},
				}, nil
			}

			rec := do(http.MethodGet, "/api/chat/get/messages/"+reportID.String(), nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var data []map[string]any
			Expect(json.Unmarshal(decode(rec).Data, &data)).To(Succeed())
			Expect(data).To(HaveLen(2))
			Expect(data[0]["message"]).To(Equal("pertama"))
			Expect(data[0]["chatId"]).To(Equal(chatID.String()))
			Expect(data[0]["isRead"]).To(BeFalse())
			Expect(data[0]["user"]).To(HaveKeyWithValue("name", "Pak RT"))
		})

		It("returns an empty list rather than an error", func() {
			svc.getMessages = func(context.Context, services.Actor, uuid.UUID) ([]message.Message, error) {
				return []message.Message{}, nil
			}

			rec := do(http.MethodGet, "/api/chat/get/messages/"+uuid.NewString(), nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(string(decode(rec).Data)).To(Equal("[]"))
		})

		It("rejects a malformed report id", func() {
			rec := do(http.MethodGet, "/api/chat/get/messages/not-a-uuid", nil)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			env := decode(rec)
			Expect(env.Success).To(BeFalse())
			Expect(env.Code).To(Equal("INVALID_REQUEST"))
		})

		It("maps access denial to 403", func() {
			svc.getMessages = func(context.Context, services.Actor, uuid.UUID) ([]message.Message, error) {
				return nil, portal_errors.ErrForbidden
			}

			rec := do(http.MethodGet, "/api/chat/get/messages/"+uuid.NewString(), nil)

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(decode(rec).Code).To(Equal("FORBIDDEN"))
		})

		It("hides internal failure details", func() {
			svc.getMessages = func(context.Context, services.Actor, uuid.UUID) ([]message.Message, error) {
				return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
			}

			rec := do(http.MethodGet, "/api/chat/get/messages/"+uuid.NewString(), nil)

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			env := decode(rec)
			Expect(env.Message).To(Equal("internal server error"))
			Expect(rec.Body.String()).NotTo(ContainSubstring("10.0.0.5"))
		})
	})

	Describe("POST /start/chat/:reportId", func() {
		It("answers 201 when the chat is created", func() {
			reportID := uuid.New()
			svc.startChat = func(_ context.Context, _ services.Actor, id uuid.UUID) (chat.Chat, bool, error) {
				return chat.Chat{ID: uuid.New(), ReportID: id}, true, nil
			}

			rec := do(http.MethodPost, "/api/chat/start/chat/"+reportID.String(), nil)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var data map[string]any
			Expect(json.Unmarshal(decode(rec).Data, &data)).To(Succeed())
			Expect(data["reportId"]).To(Equal(reportID.String()))
		})

		It("answers 200 when the chat already existed", func() {
			svc.startChat = func(_ context.Context, _ services.Actor, id uuid.UUID) (chat.Chat, bool, error) {
				return chat.Chat{ID: uuid.New(), ReportID: id}, false, nil
			}

			rec := do(http.MethodPost, "/api/chat/start/chat/"+uuid.NewString(), nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("maps an unknown report to 404", func() {
			svc.startChat = func(context.Context, services.Actor, uuid.UUID) (chat.Chat, bool, error) {
				return chat.Chat{}, false, portal_errors.ErrNotFound
			}

			rec := do(http.MethodPost, "/api/chat/start/chat/"+uuid.NewString(), nil)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /get/chatId/:reportId", func() {
		It("returns the chat id", func() {
			chatID := uuid.New()
			svc.getChatID = func(context.Context, services.Actor, uuid.UUID) (*uuid.UUID, error) {
				return &chatID, nil
			}

			rec := do(http.MethodGet, "/api/chat/get/chatId/"+uuid.NewString(), nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(string(decode(rec).Data)).To(MatchJSON(`{"id":"` + chatID.String() + `"}`))
		})

		It("returns null data when the report has no chat", func() {
			svc.getChatID = func(context.Context, services.Actor, uuid.UUID) (*uuid.UUID, error) {
				return nil, nil
			}

			rec := do(http.MethodGet, "/api/chat/get/chatId/"+uuid.NewString(), nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(string(decode(rec).Data)).To(Equal("null"))
		})
	})

	Describe("GET /get/chat/unread", func() {
		It("returns false as a value, not an omitted field", func() {
			svc.hasUnread = func(context.Context, services.Actor) (bool, error) { return false, nil }

			rec := do(http.MethodGet, "/api/chat/get/chat/unread", nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(string(decode(rec).Data)).To(Equal("false"))
		})

		It("returns true when something is unread", func() {
			svc.hasUnread = func(context.Context, services.Actor) (bool, error) { return true, nil }

			rec := do(http.MethodGet, "/api/chat/get/chat/unread", nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(string(decode(rec).Data)).To(Equal("true"))
		})

		It("requires an authenticated user", func() {
			withAuth = false

			rec := do(http.MethodGet, "/api/chat/get/chat/unread", nil)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(decode(rec).Code).To(Equal("UNAUTHORIZED"))
		})
	})

	Describe("POST /send/message/:chatId", func() {
		It("creates the message", func() {
			chatID := uuid.New()
			svc.sendMessage = func(_ context.Context, _ services.Actor, id uuid.UUID, content string) (message.Message, error) {
				Expect(id).To(Equal(chatID))
				Expect(content).To(Equal("Sedang kami tindak lanjuti"))
				return message.Message{ID: uuid.New(), ChatID: id, UserID: actor.UserID, Content: content}, nil
			}

			rec := do(http.MethodPost, "/api/chat/send/message/"+chatID.String(), map[string]string{"message": "Sedang kami tindak lanjuti"})

			Expect(rec.Code).To(Equal(http.StatusCreated))
			var data map[string]any
			Expect(json.Unmarshal(decode(rec).Data, &data)).To(Succeed())
			Expect(data["isRead"]).To(BeFalse())
			Expect(data["message"]).To(Equal("Sedang kami tindak lanjuti"))
		})

		It("answers 422 when the message field is missing", func() {
			rec := do(http.MethodPost, "/api/chat/send/message/"+uuid.NewString(), map[string]string{})

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(decode(rec).Code).To(Equal("VALIDATION_FAILED"))
		})

		It("answers 400 on malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/chat/send/message/"+uuid.NewString(), bytes.NewBufferString("{"))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("surfaces service validation as 422", func() {
			svc.sendMessage = func(context.Context, services.Actor, uuid.UUID, string) (message.Message, error) {
				return message.Message{}, portal_errors.ErrInvalidInput
			}

			rec := do(http.MethodPost, "/api/chat/send/message/"+uuid.NewString(), map[string]string{"message": "   "})

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		})
	})

	Describe("PATCH /read/message/:messageId", func() {
		It("marks the message read", func() {
			messageID := uuid.New()
			called := false
			svc.markRead = func(_ context.Context, _ services.Actor, id uuid.UUID) error {
				called = true
				Expect(id).To(Equal(messageID))
				return nil
			}

			rec := do(http.MethodPatch, "/api/chat/read/message/"+messageID.String(), nil)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(called).To(BeTrue())
			Expect(decode(rec).Success).To(BeTrue())
		})

		It("maps an unknown message to 404", func() {
			svc.markRead = func(context.Context, services.Actor, uuid.UUID) error { return portal_errors.ErrNotFound }

			rec := do(http.MethodPatch, "/api/chat/read/message/"+uuid.NewString(), nil)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("POST /get/chat/unread-counts", func() {
		It("returns counts keyed by report id", func() {
			a, b := uuid.New(), uuid.New()
			svc.unreadCounts = func(_ context.Context, _ services.Actor, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
				Expect(ids).To(Equal([]uuid.UUID{a, b}))
				return map[uuid.UUID]int64{a: 2, b: 0}, nil
			}

			rec := do(http.MethodPost, "/api/chat/get/chat/unread-counts", map[string][]string{"reportIds": {a.String(), b.String()}})

			Expect(rec.Code).To(Equal(http.StatusOK))
			var data map[string]int64
			Expect(json.Unmarshal(decode(rec).Data, &data)).To(Succeed())
			Expect(data).To(Equal(map[string]int64{a.String(): 2, b.String(): 0}))
		})

		It("rejects ids that are not uuids", func() {
			rec := do(http.MethodPost, "/api/chat/get/chat/unread-counts", map[string][]string{"reportIds": {"abc"}})

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		})
	})
})
