package main

import (
	"context"
	"log"
	"net/http"

	"github.com/blaisecz/sleep-bot/internal/api"
	"github.com/blaisecz/sleep-bot/internal/api/handler"
	"github.com/blaisecz/sleep-bot/internal/config"
	"github.com/blaisecz/sleep-bot/internal/dialog"
	"github.com/blaisecz/sleep-bot/internal/domain"
	"github.com/blaisecz/sleep-bot/internal/i18n"
	"github.com/blaisecz/sleep-bot/internal/logging"
	"github.com/blaisecz/sleep-bot/internal/repository"
	"github.com/blaisecz/sleep-bot/internal/seed"
	"github.com/blaisecz/sleep-bot/internal/service"
	"github.com/blaisecz/sleep-bot/internal/telemetry"
	"github.com/blaisecz/sleep-bot/pkg/timeutil"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize tracing (no-op when OTLP_ENDPOINT is unset)
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg, "sleep-bot")
	if err != nil {
		logger.Fatal("Failed to initialize tracer", "error", err)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			logger.Error("Failed to shut down tracer", "error", err)
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(&domain.User{}, &domain.SleepSession{}, &domain.DialogState{}); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database migration completed")

	if cfg.Seed {
		logger.Info("Seeding database with sample data (SEED=true)")
		if err := seed.Run(db); err != nil {
			logger.Fatal("Failed to seed database", "error", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSleepSessionRepository(db)
	stateRepo := repository.NewDialogStateRepository(db)

	// Initialize services
	tz := timeutil.New(logger)
	userService := service.NewUserService(userRepo, cfg.DefaultLanguage, cfg.DefaultTimezone, logger)
	sleepService := service.NewSleepService(sessionRepo, tz, logger)
	statsService := service.NewStatisticsService(sessionRepo, logger)

	localizer, err := i18n.New(logger)
	if err != nil {
		logger.Fatal("Failed to load translations", "error", err)
	}

	engine := dialog.NewEngine(userService, sleepService, statsService, stateRepo, localizer, logger)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	sleepHandler := handler.NewSleepHandler(userService, sleepService)
	statsHandler := handler.NewStatsHandler(userService, statsService, tz)
	chatHandler := handler.NewChatHandler(engine)

	// Setup router
	router := api.NewRouter(logger, userHandler, sleepHandler, statsHandler, chatHandler)
	routerHandler := router.Setup()

	// Start server
	addr := ":" + cfg.Port
	logger.Info("Starting server", "addr", addr, "environment", cfg.Environment)
	if err := http.ListenAndServe(addr, routerHandler); err != nil {
		logger.Fatal("Server failed", "error", err)
	}
}
