package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack-ai/internal/auth"
	"github.com/justsurfingit/jobtrack-ai/internal/config"
	"github.com/justsurfingit/jobtrack-ai/internal/database"
	"github.com/justsurfingit/jobtrack-ai/internal/server"
	"github.com/justsurfingit/jobtrack-ai/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	configureLogger(log, cfg)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database connection
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Credentials
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatal(err)
	}
	passwords := auth.NewPasswordService()

	// 4. Language model
	model, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal(err)
	}
	log.WithField("model", cfg.GeminiModel).Info("Gemini client ready")

	// 5. Core services
	llmService := services.NewLLMService(model, log.WithField("component", "llm"))
	userService := services.NewUserService(db)
	authService := services.NewAuthService(userService, passwords, tokens, log.WithField("component", "auth"))
	appService := services.NewApplicationService(db, llmService, log.WithField("component", "applications"))

	// 6. Optional Gmail integration
	var source services.MailSource
	if cfg.GmailEnabled() {
		gmailService, err := auth.NewGmailService(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile)
		if err != nil {
			log.WithError(err).Warn("Gmail integration disabled")
		} else {
			source = services.NewGmailSource(gmailService, log.WithField("component", "gmail"))
			log.Info("Gmail service connected")
		}
	}
	inboxService := services.NewInboxService(appService, source, log.WithField("component", "inbox"))

	// 7. Router
	router := server.NewRouter(server.Deps{
		DB:             db,
		Log:            log,
		Auth:           authService,
		Applications:   appService,
		Inbox:          inboxService,
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	if err := server.Run(ctx, ":"+cfg.Port, router, log); err != nil {
		log.Fatal(err)
	}
}

func configureLogger(log *logrus.Logger, cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
