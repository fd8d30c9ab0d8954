package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"

	"movie-discovery-social-service/internal/cache"
	"movie-discovery-social-service/internal/config"
	"movie-discovery-social-service/internal/database"
	"movie-discovery-social-service/internal/handler"
	"movie-discovery-social-service/internal/middleware"
	"movie-discovery-social-service/internal/repository"
	"movie-discovery-social-service/internal/repository/memory"
	"movie-discovery-social-service/internal/repository/postgres"
	"movie-discovery-social-service/internal/service"
)

const appName = "Social Service"

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Select storage backend
	var store repository.Store
	switch cfg.Storage {
	case config.StorageMemory:
		store = memory.NewStore()
		slog.Info("using in-memory storage")
	default:
		db, err := database.NewPostgres(cfg.DB)
		if err != nil {
			slog.Error("failed to connect to PostgreSQL", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = postgres.NewStore(db)
	}

	// Connect to Redis (non-fatal if unavailable)
	var rdb *redis.Client
	if client, err := database.NewRedis(context.Background(), cfg.Redis); err != nil {
		slog.Warn("Redis unavailable, running without cache and rate limiting", "error", err)
	} else {
		rdb = client
		defer rdb.Close()
	}

	// Initialize layers
	appCache := cache.New(rdb)
	refs := service.NewReferenceService(store.Genres, store.Mpa, appCache)
	films := service.NewFilmService(store, refs, appCache, cfg.PopularCacheTTL)
	users := service.NewUserService(store)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ServerHeader: "Social-Service",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.Metrics())

	handler.RegisterMetrics(app)

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, appName, swaggerYAML)
	}

	// API routes
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindowSeconds)
	handler.RegisterRoutes(app, handler.Handlers{
		Films:     handler.NewFilmHandler(films),
		Users:     handler.NewUserHandler(users),
		Reference: handler.NewReferenceHandler(refs),
	}, limiter.Handler())

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down social service...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting social service", "addr", addr, "storage", cfg.Storage)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
