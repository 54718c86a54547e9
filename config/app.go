package config

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
	"real-time-dm-api/config/common"
	"real-time-dm-api/config/logger"
	"real-time-dm-api/entity"
	"real-time-dm-api/handler"
	"real-time-dm-api/hub"
	"real-time-dm-api/middleware"
	"real-time-dm-api/repository"
	"real-time-dm-api/routes"
	"real-time-dm-api/usecase"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type AppConfig struct {
	*fiber.App
	*validator.Validate
	*logrus.Logger
	*middleware.Middleware
	Config *common.Config
	AppLog *logger.AppLogger
	Store  repository.Store
}

// RunServer wires the application and serves until SIGINT or SIGTERM.
func RunServer(cfg *common.Config) error {
	if err := checkConfig(cfg); err != nil {
		return err
	}

	logDir, _ := cfg.GetLogConfig()
	appLog := logger.NewLogger(logDir)
	log := NewLogger(cfg)

	store, closeStore, err := NewStore(cfg, appLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Warn("Failed to close store")
		}
	}()

	app := NewFiber(cfg)
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.GetCorsOrigins(),
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	App(&AppConfig{
		App:        app,
		Validate:   NewValidator(),
		Logger:     log,
		Middleware: middleware.NewMiddleware(cfg, log),
		Config:     cfg,
		AppLog:     appLog,
		Store:      store,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.GetListenAddress())
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			log.WithError(err).Errorf("Failed to start server: %v", err)
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

var ErrMissingJwtSecret = errors.New("JWT_SECRET is not set")

// checkConfig rejects settings the server cannot start with.
func checkConfig(cfg *common.Config) error {
	if len(cfg.GetJwtConfig()) == 0 {
		return ErrMissingJwtSecret
	}
	return nil
}

// NewStore opens the store selected by STORE_DRIVER. The returned func
// releases its resources.
func NewStore(cfg *common.Config, appLog *logger.AppLogger) (repository.Store, func() error, error) {
	switch driver := cfg.GetStoreDriver(); driver {
	case StoreDriverMemory:
		store := repository.NewMemoryStore()
		for _, id := range cfg.GetSeedUsers() {
			store.PutUser(entity.User{BaseEntity: entity.BaseEntity{ID: id}, Name: id})
		}
		appLog.Http.Info.Info().Int("users", len(cfg.GetSeedUsers())).Msg("Using in-memory store")
		return store, func() error { return nil }, nil
	case StoreDriverPostgres:
		db, err := NewDB(cfg, appLog)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewGormStore(db.GetDB()), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// App builds the usecases and handlers on top of aC and registers the
// routes. The hub is returned so callers can inspect live sessions.
func App(aC *AppConfig) *hub.Hub {
	timeout := aC.Config.GetStoreTimeout()
	heartbeat, writeTimeout := aC.Config.GetWebSocketConfig()

	liveHub := hub.New(aC.AppLog)

	newReadStateUsecase := usecase.NewReadStateUsecase(aC.Store, liveHub, aC.Logger, timeout)
	newConversationUsecase := usecase.NewConversationUsecase(aC.Store, newReadStateUsecase, aC.Logger, timeout)
	newMessageUsecase := usecase.NewMessageUsecase(aC.Store, liveHub, aC.Logger, timeout)

	newUserHandler := handler.NewUserHandler(newReadStateUsecase, aC.Logger)
	newChatHandler := handler.NewChatHandler(newConversationUsecase, newMessageUsecase, newReadStateUsecase, aC.Validate, aC.Logger)
	wsHandler := handler.NewWebSocketHandler(liveHub, aC.AppLog, heartbeat, writeTimeout)

	route := routes.ConfigRoute{
		App:              aC.App,
		Middleware:       aC.Middleware,
		UserHandler:      newUserHandler,
		ChatHandler:      newChatHandler,
		WebSocketHandler: wsHandler,
	}
	route.GetRoute()
	return liveHub
}
