package main

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/yelrambob/supply-QR/internal/handler"
	"github.com/yelrambob/supply-QR/internal/repositories"
	"github.com/yelrambob/supply-QR/internal/router"
	"github.com/yelrambob/supply-QR/internal/service"
	"github.com/yelrambob/supply-QR/pkg/database"
	"github.com/yelrambob/supply-QR/pkg/envconfig"
	"github.com/yelrambob/supply-QR/pkg/flags"
	"github.com/yelrambob/supply-QR/pkg/logger"
	"github.com/yelrambob/supply-QR/pkg/mailer"
	"github.com/yelrambob/supply-QR/pkg/shutdownsetup"
)

func main() {
	// Parse command-line flags
	flagConfig := flags.Parse()

	if err := flagConfig.Validate(); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		return
	}

	envErr := envconfig.LoadEnvFile(".env")

	loggerConfig := logger.Config{
		Level:        envconfig.GetLogLevel(),
		Format:       envconfig.GetEnv("LOG_FORMAT", "json"),
		Output:       envconfig.GetEnv("LOG_OUTPUT", "stdout"),
		EnableCaller: envconfig.GetEnv("LOG_ENABLE_CALLER", "true") == "true",
		Environment:  envconfig.GetEnv("ENVIRONMENT", "development"),
	}

	appLogger := logger.New(loggerConfig)

	if envErr != nil {
		appLogger.Warn("Failed to load .env file", "error", envErr)
	} else {
		appLogger.Debug(".env file loaded successfully")
	}

	appLogger.Info("Starting Supply Ordering & Inventory Tracker",
		"environment", loggerConfig.Environment,
		"log_level", loggerConfig.Level,
		"data_dir", flagConfig.DataDir)

	dbConfig := envconfig.LoadDatabaseConfig()

	// The order log lives in the hosted Postgres store; without it the
	// tracker cannot log or reconcile anything.
	db, err := database.NewConnection(dbConfig, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to establish database connection", "error", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	if err := db.HealthCheck(); err != nil {
		appLogger.Error("Database health check failed", "error", err)
	} else {
		appLogger.Info("Database health check passed")
	}

	mailerConfig, err := mailer.LoadConfig(flagConfig.MailConfig)
	if err != nil {
		appLogger.Warn("Failed to load mailer config, notifications disabled", "error", err)
	}
	if !mailerConfig.Configured() {
		appLogger.Warn("Mail transport not configured; submissions will skip notification")
	}
	mail := mailer.New(mailerConfig, appLogger)

	// Initialize repositories
	catalogRepo := repositories.NewCatalogRepository(filepath.Join(flagConfig.DataDir, "catalog.csv"), appLogger)
	orderLogRepo := repositories.NewOrderLogRepository(appLogger, db)
	rosterRepo := repositories.NewRosterRepository(
		filepath.Join(flagConfig.DataDir, "people.txt"),
		filepath.Join(flagConfig.DataDir, "emails.csv"),
		appLogger)

	// Initialize services
	freshnessService := service.NewFreshnessService(catalogRepo, orderLogRepo, appLogger)
	notificationService := service.NewNotificationService(mail, rosterRepo, service.DefaultBatchCeiling, appLogger)
	orderService := service.NewOrderService(orderLogRepo, catalogRepo, notificationService, appLogger)

	// Initialize handlers
	orderHandler := handler.NewOrderHandler(orderService, appLogger)
	catalogHandler := handler.NewCatalogHandler(catalogRepo, freshnessService, appLogger)
	rosterHandler := handler.NewRosterHandler(rosterRepo, mail, appLogger)

	mux := router.NewRouter(orderHandler, catalogHandler, rosterHandler)
	rootHandler := appLogger.HTTPMiddleware(mux)

	initialPort := flagConfig.Port
	if initialPort == "" {
		initialPort = envconfig.GetEnv("PORT", "8080")
	}
	host := envconfig.GetEnv("HOST", "localhost")

	port := initialPort

	server := &http.Server{
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		server.Addr = host + ":" + port

		go func() {
			appLogger.Info("Starting HTTP server",
				"host", host,
				"port", port,
				"address", server.Addr)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Error("Server error", "error", err)
				serverErrors <- err
			}
		}()

		select {
		case err := <-serverErrors:
			if strings.Contains(err.Error(), "address already in use") && i < maxRetries-1 {
				portNum := 8080 + i + 1
				port = fmt.Sprintf("%d", portNum)
				appLogger.Warn("Port already in use, trying alternative port",
					"current_port", server.Addr,
					"next_port", port)
				continue
			} else {
				appLogger.Error("Failed to start server after retries", "error", err)
				return
			}
		case <-time.After(200 * time.Millisecond):
			appLogger.Info("Server started successfully", "port", port)
		}

		break
	}

	select {
	case err := <-serverErrors:
		appLogger.Error("Could not start server", "error", err)
		return
	default:
		shutdownsetup.SetupGracefulShutdown(server, appLogger)
	}
}
