package main

import (
	"context"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/shopping-list/internal/bootstrap"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"github.com/kahvecikaan/shopping-list/internal/repository"
	"github.com/kahvecikaan/shopping-list/internal/service"
	httpTransport "github.com/kahvecikaan/shopping-list/internal/transport/http"
	"github.com/nicholasjackson/env"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":9090", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"debug", "Log output level for the server [debug, info, trace]")
	logFormat = env.String("LOG_FORMAT", false,
		"text", "Log output format [text, json]")
	corsAllowAll = env.Bool("CORS_ALLOW_ALL", false,
		false, "Allow any origin, method and header. Not for production")
	corsAllowedOrigins = env.String("CORS_ALLOWED_ORIGINS", false,
		"http://localhost:5173", "Comma separated origins allowed to call the API")
	configDir = env.String("CONFIG_DIR", false,
		".", "Directory holding config.yaml")
	migrationAttempts = env.Int("MIGRATION_ATTEMPTS", false,
		bootstrap.DefaultAttempts, "Attempts to reach the database and migrate the schema")
	migrationDelay = env.Duration("MIGRATION_DELAY", false,
		bootstrap.DefaultDelay, "Delay between migration attempts")
)

func main() {
	if err := env.Parse(); err != nil {
		hclog.Default().Error("Invalid environment", "error", err)
		os.Exit(1)
	}

	// Initialize the logger
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "shopping-list-api",
		Level:      hclog.LevelFromString(*logLevel),
		JSONFormat: strings.EqualFold(*logFormat, "json"),
	})

	// Create a standard logger for the HTTP server
	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	// Stop waiting on the database if we are asked to quit during startup
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retry := bootstrap.DefaultRetryPolicy()
	retry.Attempts = *migrationAttempts
	retry.Delay = *migrationDelay

	store, err := bootstrap.Run(ctx, bootstrap.Config{
		Resolvers: bootstrap.DefaultResolvers(os.Getenv, *configDir),
		Retry:     retry,
	}, logger.Named("bootstrap"))
	if err != nil {
		logger.Error("Unable to start", "kind", domain.KindOf(err), "error", err)
		os.Exit(1)
	}

	itemRepo := repository.NewSQLItemRepository(store.DB, store.Dialect)

	is := service.NewItemService(
		itemRepo,
		domain.NewValidation(),
		logger.Named("item-service"),
	)

	ih := httpTransport.NewItemHandler(is, logger.Named("http-handler"))

	corsConfig := httpTransport.NewCORSConfig(*corsAllowAll, *corsAllowedOrigins)
	if *corsAllowAll {
		logger.Warn("CORS allows every origin, method and header; do not run this in production")
	}

	router := httpTransport.NewRouter(ih, logger, corsConfig, store.DB)

	// Create the HTTP Server
	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      router,
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Start the server in a new goroutine
	go func() {
		logger.Info("Starting server", "bind_address", *bindAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Error starting server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	stop()
	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", "error", err)
	}

	if err := store.DB.Close(); err != nil {
		logger.Error("Error closing database", "error", err)
	}
}
