package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	httpapi "toolshare-backend/internal/api/http"
	"toolshare-backend/internal/checkout"
	"toolshare-backend/internal/config"
	"toolshare-backend/internal/jobs"
	"toolshare-backend/internal/logger"
	"toolshare-backend/internal/repository/postgres"
	"toolshare-backend/internal/scheduler"
	"toolshare-backend/internal/security"
	"toolshare-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting ToolShare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
	)

	// Initialize checkout session store and payment gateway
	sessions := checkout.NewStore(time.Duration(cfg.Billing.SessionTTLMinutes) * time.Minute)
	gateway := service.NewStubPaymentGateway()

	// Initialize Services
	quoteSvc := service.NewQuoteService(
		store.ToolRepository,
		store.InsurancePlanRepository,
		store.PromoCodeRepository,
		decimal.NewFromFloat(cfg.Billing.PlatformFeeRate),
	)
	checkoutSvc := service.NewCheckoutService(
		sessions,
		quoteSvc,
		store.ToolRepository,
		store.UserRepository,
		store.BookingRepository,
		store.NotificationRepository,
		emailSvc,
		gateway,
		time.Duration(cfg.Billing.SubmitTimeoutSeconds)*time.Second,
	)
	toolSvc := service.NewToolService(store.ToolRepository, store.UserRepository)
	bookingSvc := service.NewBookingService(store.BookingRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize scheduler
	jobRunner := jobs.NewJobRunner(db, store, sessions, emailSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Handlers{
		Quotes:        quoteSvc,
		Checkout:      checkoutSvc,
		Tools:         toolSvc,
		Bookings:      bookingSvc,
		Notifications: noteSvc,
		Tokens:        tokenManager,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")
	if err := server.Close(); err != nil {
		logger.Error("Error closing HTTP server", "error", err)
	}
}
