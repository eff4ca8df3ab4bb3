package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chriseckman/auto-southwest-check-in/internal/infrastructure/config"
	"github.com/chriseckman/auto-southwest-check-in/internal/infrastructure/persistence"
	apirepo "github.com/chriseckman/auto-southwest-check-in/internal/interface/repository"
	"github.com/chriseckman/auto-southwest-check-in/internal/usecase"
	"github.com/chriseckman/auto-southwest-check-in/pkg/logger"
	"github.com/chriseckman/auto-southwest-check-in/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting check-in service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	if len(cfg.ConfirmationNumbers) == 0 {
		log.Fatal("No confirmation numbers configured, set CONFIRMATION_NUMBERS")
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for check-in records
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Set up PostgreSQL connection for the airport timezone table
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}
	timezoneRepo := apirepo.NewGormTimezoneRepository(gormDB)

	// Set up repositories
	southwestRepo := apirepo.NewSouthwestRepository(log, cfg.APIBaseURL, cfg.FirstName, cfg.LastName)
	notificationRepo := apirepo.NewWebhookNotificationRepository(log, cfg.NotificationURL)
	recordRepo := apirepo.NewMongoCheckInRecordRepository(db)

	// Set up metrics
	m := metrics.NewMetrics("checkin")

	// Set up the scheduling engine
	policy := usecase.NewCheckInPolicy(cfg.CheckInOffset, cfg.SameDayBuffer)
	scheduler := usecase.NewCheckInScheduler(
		southwestRepo,
		southwestRepo,
		notificationRepo,
		timezoneRepo,
		recordRepo,
		policy,
		log,
		m,
	)

	// Set up the fare checker when enabled
	var fareChecker *usecase.FareChecker
	if option := usecase.CheckFaresOption(cfg.CheckFares); option != usecase.CheckFaresNo {
		filter, err := usecase.GetFareCheckFilter(option)
		if err != nil {
			log.Fatal("Invalid CHECK_FARES option", "option", cfg.CheckFares, "error", err)
		}
		fareChecker = usecase.NewFareChecker(southwestRepo, southwestRepo, notificationRepo, log, m, filter)
	}

	// Start the reservation monitor in a goroutine
	monitor := usecase.NewReservationMonitor(scheduler, fareChecker, cfg.ConfirmationNumbers, cfg.PollInterval, log)
	go monitor.Start(ctx)

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop the monitor

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Check-in service stopped")
}
