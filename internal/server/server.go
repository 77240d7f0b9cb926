package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rt-portal/config"
	"rt-portal/internal/handler"
	"rt-portal/internal/middleware"
	"rt-portal/internal/transport/httpdto"
	"rt-portal/internal/websocket"
	"rt-portal/pkg/database"
	"rt-portal/pkg/logger"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
	cleanup    []func(context.Context) error
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Chat      *handler.ChatHandler
	Websocket *websocket.Handler
}

// Deps are the collaborators routes need beyond the handlers themselves.
// Limiter may be nil, in which case sending is not rate limited.
type Deps struct {
	DB      *gorm.DB
	Auth    middleware.Authenticator
	Limiter middleware.MessageLimiter
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	if cfg.SentryDSN != "" {
		engine.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	engine.Use(middleware.Recovery(l))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// OnShutdown registers a hook run after the HTTP server has drained.
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.cleanup = append(s.cleanup, fn)
}

func (s *Server) SetupRoutes(handlers *Handlers, deps Deps) {
	s.engine.Use(middleware.RequestIDMiddleware())
	if s.config.OTelEndpoint != "" {
		s.engine.Use(otelgin.Middleware(s.config.OTelServiceName))
	}
	if s.config.MetricsEnabled {
		s.engine.Use(middleware.Metrics())
	}
	s.engine.Use(middleware.LoggingMiddleware(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", healthHandler(deps.DB, s.logger))

	if s.config.MetricsEnabled {
		s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	if handlers.Websocket != nil {
		s.engine.GET("/ws", handlers.Websocket.Connect)
	}

	chat := s.engine.Group("/api/chat", middleware.AuthMiddleware(deps.Auth))
	{
		chat.GET("/get/messages/:reportId", handlers.Chat.GetMessages)
		chat.POST("/start/chat/:reportId", handlers.Chat.StartChat)
		chat.GET("/get/chatId/:reportId", handlers.Chat.GetChatID)
		chat.GET("/get/chat/unread", handlers.Chat.HasUnread)
		chat.POST("/get/chat/unread-counts", handlers.Chat.UnreadCounts)
		chat.PATCH("/read/message/:messageId", handlers.Chat.MarkMessageAsRead)

		if deps.Limiter != nil {
			chat.POST("/send/message/:chatId", middleware.MessageRateLimitMiddleware(deps.Limiter), handlers.Chat.SendMessage)
		} else {
			chat.POST("/send/message/:chatId", handlers.Chat.SendMessage)
		}
	}
}

func healthHandler(db *gorm.DB, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			l.WithContext(c.Request.Context()).Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("database unavailable", "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	}
}

func (s *Server) Start() error {
	go func() {
		s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("Error in starting the server: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	s.logger.Infof("Server is running on :%s", s.config.AppPort)

	<-quit

	s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		return err
	}

	for i := len(s.cleanup) - 1; i >= 0; i-- {
		if err := s.cleanup[i](ctx); err != nil {
			s.logger.Warnf("shutdown hook failed: %s", err)
		}
	}

	s.logger.Infof("Server stopped gracefully")
	return nil
}
