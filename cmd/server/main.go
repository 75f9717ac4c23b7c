package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/database"
	"github.com/mentorconnect/backend/internal/events"
	"github.com/mentorconnect/backend/internal/handlers"
	"github.com/mentorconnect/backend/internal/logging"
	"github.com/mentorconnect/backend/internal/metrics"
	"github.com/mentorconnect/backend/internal/middleware"
	"github.com/mentorconnect/backend/internal/repository"
	"github.com/mentorconnect/backend/internal/repository/mongostore"
	"github.com/mentorconnect/backend/internal/routes"
	"github.com/mentorconnect/backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.UsesPostgres() && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	fileSettings, err := config.LoadSettingsFile(cfg.SettingsPath)
	if err != nil {
		slog.Error("failed to load settings file", "path", cfg.SettingsPath, "error", err)
		os.Exit(1)
	}

	// Stores
	if cfg.StoreDriver == "memory" {
		slog.Warn("using in-memory sqlite store, data is lost on restart")
	}
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateAll(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	store := repository.NewGormStore(database.DB)
	var messages repository.MessageRepository = repository.NewGormMessages(database.DB)

	// ERROR+ records are also batched into system_logs
	dbLog := logging.NewDBHandler(database.DB)
	logging.AttachDB(dbLog)
	cleanupEnd := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupEnd)

	var mongoMessages *mongostore.Messages
	if cfg.MessageStore == "mongo" {
		mongoMessages, err = mongostore.Connect(context.Background(), cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			slog.Error("mongo connection failed", "error", err)
			os.Exit(1)
		}
		messages = mongoMessages
		slog.Info("message log stored in mongo", "database", cfg.MongoDatabase)
	}

	publisher := events.New(cfg.NATSURL)

	// Services
	settingsService := services.NewSettingsService(store, fileSettings)
	moderationService := services.NewModerationService(store)
	ratingAggregator := services.NewRatingAggregator(store)
	authService := services.NewAuthService(store, cfg, settingsService)
	userService := services.NewUserService(store, settingsService)
	mentorService := services.NewMentorService(store, settingsService)
	sessionService := services.NewSessionService(store, settingsService, publisher, cfg.MeetingBaseURL)
	reviewService := services.NewReviewService(store, ratingAggregator, moderationService)
	messageService := services.NewMessageService(store, messages, moderationService)
	paymentService := services.NewPaymentService(store)

	// Handlers
	h := routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Health:     handlers.NewHealthHandler(cfg.StoreDriver, database.Ping),
		Users:      handlers.NewUserHandler(userService),
		Mentors:    handlers.NewMentorHandler(mentorService),
		Sessions:   handlers.NewSessionHandler(sessionService),
		Reviews:    handlers.NewReviewHandler(reviewService),
		Messages:   handlers.NewMessageHandler(messageService),
		Moderation: handlers.NewModerationHandler(moderationService),
		Admin:      handlers.NewAdminHandler(userService, mentorService, sessionService),
		Settings:   handlers.NewSettingsHandler(settingsService),
		Webhooks:   handlers.NewWebhookHandler(paymentService, cfg.PaymentWebhookSecret),
		Legal:      handlers.NewLegalHandler(settingsService),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${respHeader:X-Request-ID}\n",
	}))
	app.Use(metrics.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, store, settingsService, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver, "messages", cfg.MessageStore)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupEnd)
	publisher.Close()
	dbLog.Stop()
	sentry.Flush(2 * time.Second)

	if mongoMessages != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := mongoMessages.Close(ctx); err != nil {
			slog.Error("mongo close error", "error", err)
		}
		cancel()
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
