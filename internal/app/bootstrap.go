package app

import (
	"context"

	"todos/internal/app/health"
	"todos/internal/app/todo"
	"todos/internal/config"
	"todos/internal/db"
	"todos/internal/db/seeder"
	"todos/internal/gateways/websocket"
	"todos/internal/providers/redis"
	"todos/internal/router"
	"todos/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
	Redis  *redis.RedisProvider
	Hub    *websocket.Hub
}

func Bootstrap(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	todoRepo := todo.NewRepository(dbConn)

	if cfg.SeedTodos > 0 {
		seed := seeder.NewSeeder(todoRepo, logger)
		if _, err := seed.Seed(ctx, cfg.SeedTodos, "1"); err != nil {
			logger.Warn("Failed to run seeders", zap.Error(err))
		}
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	eventBus := utils.NewEventBus()
	audit := logger.Sugar()
	for _, name := range []string{todo.EventCreated, todo.EventUpdated, todo.EventDeleted} {
		eventBus.Subscribe(name, func(e utils.Event) {
			audit.Infow("Todo changed", "event", e.Event)
		})
	}

	todoService := todo.NewService(todoRepo, redisProvider, eventBus, logger)

	hub := websocket.NewHub(logger, eventBus)
	go hub.Run(ctx)

	healthService := health.NewHealthService(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	}).WithLogger(logger)

	r := router.NewRouter(logger, cfg.FrontendURL)

	r.RegisterHealthRoutes(health.NewHandler(healthService))
	r.RegisterTodoRoutes(todo.NewHandler(todoService, logger))
	r.RegisterWebSocketRoutes(hub)
	r.RegisterSwaggerRoutes()

	return &Application{
		Router: r,
		DB:     dbConn,
		Redis:  redisProvider,
		Hub:    hub,
	}, nil
}

func (a *Application) Close() error {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
