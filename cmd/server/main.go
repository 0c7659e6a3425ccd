package main

import (
	"fmt"
	"os"
	"time"

	"github.com/eol-ict/onlyoo-backend/internal/cache"
	"github.com/eol-ict/onlyoo-backend/internal/config"
	"github.com/eol-ict/onlyoo-backend/internal/db"
	"github.com/eol-ict/onlyoo-backend/internal/handlers"
	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/mailer"
	"github.com/eol-ict/onlyoo-backend/internal/middleware"
	"github.com/eol-ict/onlyoo-backend/internal/repos"
	"github.com/eol-ict/onlyoo-backend/internal/server"
	"github.com/eol-ict/onlyoo-backend/internal/services"
	"github.com/eol-ict/onlyoo-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	cfg, err := config.Load(utils.GetEnv("CONFIG_PATH", "config.yaml", log), log)
	if err != nil {
		log.Error("Could not load configuration", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	sectionRepo := repos.NewSectionRepo(thePG, log)
	choiceRepo := repos.NewChoiceRepo(thePG, log)
	ruleRepo := repos.NewRuleRepo(thePG, log)
	alertRepo := repos.NewAlertRepo(thePG, log)
	quoteRepo := repos.NewQuoteRepo(thePG, log)

	// Cache
	snapCache, err := cache.NewSnapshotCache(log, 5*time.Minute)
	if err != nil {
		log.Warn("Snapshot cache disabled, serving the catalog from Postgres", "error", err)
		snapCache = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, cfg.JWTSecretKey, cfg.AccessTTL())
	matrixService := services.NewMatrixService(thePG, log, sectionRepo, choiceRepo, ruleRepo, alertRepo, snapCache)
	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP, cfg.Mail.From, log)
	if err != nil {
		log.Error("Could not init SMTPMailer", "error", err)
		os.Exit(1)
	}
	quoteService := services.NewQuoteService(thePG, log, quoteRepo, matrixService, smtpMailer)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	matrixHandler := handlers.NewMatrixHandler(matrixService)
	quoteHandler := handlers.NewQuoteHandler(quoteService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		MatrixHandler:  matrixHandler,
		QuoteHandler:   quoteHandler,
		AuthMiddleware: authMiddleware,
	})

	fmt.Printf("Server listening on :%s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
