package main

import (
	"context"
	"log"
	"time"

	"rt-portal/config"
	"rt-portal/internal/events"
	"rt-portal/internal/handler"
	"rt-portal/internal/redis"
	"rt-portal/internal/repository"
	"rt-portal/internal/server"
	"rt-portal/internal/services"
	"rt-portal/internal/telemetry"
	"rt-portal/internal/websocket"
	"rt-portal/pkg/database"
	"rt-portal/pkg/id"
	"rt-portal/pkg/logger"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.LogMode)
	defer l.Sync()
	logger.SetGlobalLogger(l)

	if err := id.Init(cfg.NodeID); err != nil {
		log.Fatalf("Failed to init id generator: %v", err)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppMode,
			Release:          version,
		}); err != nil {
			l.Errorf("sentry init failed: %s", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tel, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.OTelEndpoint,
		ServiceName:    cfg.OTelServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		l.Warnf("tracing disabled: %s", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	chatRepo := repository.NewChatRepository(db)

	authService := services.NewAuthService(userRepo, cfg)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	deps := server.Deps{DB: db, Auth: authService}
	var bus *events.ChatBus

	if cfg.RedisEnabled {
		rdb := redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redis.Ping(ctx, rdb); err != nil {
			log.Fatalf("Failed to connect redis: %v", err)
		}

		bus = events.NewChatBus(redis.NewPublisher(rdb))

		bridge := websocket.NewRedisBridge(redis.NewSubscriber(rdb), hub)
		go func() {
			if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
				l.Logger.Error("redis bridge stopped", zap.Error(err))
			}
		}()

		deps.Limiter = redis.NewRateLimiter(rdb, redis.RateLimitConfig{
			MessageLimit:  cfg.MessageRateLimit,
			MessageWindow: cfg.MessageRateWindow,
		})
		defer rdb.Close()
	} else {
		l.Infof("redis disabled, chat events are delivered in-process only")
		bus = events.NewChatBus(hub)
	}

	chatService := services.NewChatService(chatRepo, reportRepo, bus)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Chat:      handler.NewChatHandler(chatService),
		Websocket: websocket.NewHandler(authService, chatService, hub, l),
	}, deps)

	srv.OnShutdown(func(context.Context) error {
		cancel()
		return nil
	})
	srv.OnShutdown(tel.Shutdown)
	srv.OnShutdown(func(context.Context) error {
		return database.Close(db)
	})

	if err := srv.Start(); err != nil {
		l.Errorf("server exited: %s", err)
	}
}
