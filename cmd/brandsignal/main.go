package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"github.com/brandsignal/brandsignal/internal/config"
	"github.com/brandsignal/brandsignal/internal/database"
	"github.com/brandsignal/brandsignal/internal/handlers"
	"github.com/brandsignal/brandsignal/internal/notify"
	"github.com/brandsignal/brandsignal/internal/scheduler"
	"github.com/brandsignal/brandsignal/internal/services"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting BrandSignal triage engine...")

	// Initialize database connection
	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Database connection established")

	// Run database migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Seed the tag vocabulary
	if err := database.InitializeDefaults(); err != nil {
		log.Fatalf("Failed to initialize database defaults: %v", err)
	}

	db := database.GetDB()

	// Slack notifications for critical alerts (optional)
	var notifier services.Notifier
	if cfg.SlackBotToken != "" && cfg.SlackAlertsChannel != "" {
		notifier = notify.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackAlertsChannel)
		log.Printf("Slack notifications enabled for channel %s", cfg.SlackAlertsChannel)
	} else {
		log.Printf("Slack notifications disabled (set SLACK_BOT_TOKEN and SLACK_ALERTS_CHANNEL to enable)")
	}

	// Initialize services
	sentimentService := services.NewSentimentService(cfg)
	if cfg.OpenAIAPIKey == "" {
		log.Printf("OPENAI_API_KEY not set, using keyword sentiment classification")
	}

	alertService := services.NewAlertService(db, notifier)
	mentionService := services.NewMentionService(db, sentimentService)
	competitorService := services.NewCompetitorService(db, alertService)
	queryService := services.NewQueryService(db)
	spikeService := services.NewSpikeService(db, alertService)
	trendService := services.NewTrendService(db)
	log.Printf("Services initialized")

	// Start background sweeps
	sched := scheduler.NewScheduler(spikeService, queryService)
	if err := sched.Start(cfg.SpikeCheckSchedule, cfg.EscalationSchedule); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Set up HTTP server routes
	apiHandler := handlers.NewAPIHandler(
		mentionService,
		competitorService,
		queryService,
		spikeService,
		trendService,
		alertService,
	)
	router := mux.NewRouter()
	apiHandler.SetupRoutes(router)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Printf("Health check endpoint: http://localhost:%d/health", cfg.HTTPPort)
	log.Printf("API base URL: http://localhost:%d/api", cfg.HTTPPort)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, cleaning up...")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if err := database.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Shutdown complete")
}
