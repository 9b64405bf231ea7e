package main

import (
	"fmt"
	"log"
	"os"

	"todos/internal/app/health"
	"todos/internal/app/todo"
	"todos/internal/config"
	"todos/internal/db"
	"todos/internal/db/seeder"
	"todos/internal/gateways/websocket"
	"todos/internal/router"
	"todos/internal/utils"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	logger, err := utils.InitLogger()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()
	cfg := config.LoadConfig()

	app := &cli.App{
		Name:  "todosctl",
		Usage: "operate the todos database",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "create or update the todos schema",
				Action: func(c *cli.Context) error {
					return withDB(&cfg, logger, func(conn *gorm.DB) error {
						return db.Migrate(conn, logger)
					})
				},
			},
			{
				Name:  "seed",
				Usage: "insert fixture todos into an empty table",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Value: 25, Usage: "number of todos to insert"},
					&cli.StringFlag{Name: "created-by", Value: "1", Usage: "owner recorded on each todo"},
				},
				Action: func(c *cli.Context) error {
					return withDB(&cfg, logger, func(conn *gorm.DB) error {
						if err := db.Migrate(conn, logger); err != nil {
							return err
						}
						s := seeder.NewSeeder(todo.NewRepository(conn), logger)
						n, err := s.Seed(c.Context, c.Int("count"), c.String("created-by"))
						if err != nil {
							return err
						}
						fmt.Printf("seeded %d todos\n", n)
						return nil
					})
				},
			},
			{
				Name:  "routes",
				Usage: "print the HTTP routes served by the API",
				Action: func(c *cli.Context) error {
					r := router.NewRouter(zap.NewNop(), cfg.FrontendURL)
					r.RegisterHealthRoutes(health.NewHandler(health.NewHealthService(&utils.HealthChecker{})))
					r.RegisterTodoRoutes(todo.NewHandler(nil, logger))
					r.RegisterWebSocketRoutes(websocket.NewHub(logger, utils.NewEventBus()))
					r.RegisterSwaggerRoutes()
					for _, route := range r.Routes() {
						fmt.Printf("%-7s %s\n", route.Method, route.Path)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("Command failed", zap.Error(err))
	}
}

func withDB(cfg *config.Config, logger *zap.Logger, fn func(conn *gorm.DB) error) error {
	conn, err := db.Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return fn(conn)
}
