package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uozumi/gyodex/internal/api"
	"github.com/uozumi/gyodex/internal/api/handler"
	"github.com/uozumi/gyodex/internal/config"
	"github.com/uozumi/gyodex/internal/logger"
	"github.com/uozumi/gyodex/internal/repository"
	"github.com/uozumi/gyodex/internal/service"
	"github.com/uozumi/gyodex/internal/source"
	"github.com/uozumi/gyodex/internal/source/bundled"
)

func main() {
	// Initialize logger from environment (level, format, rotation)
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize the catalog store (sqlite/postgres/memory per config)
	store, db, err := repository.NewStore(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open catalog store")
	}

	// Favorites need a relational backend; the memory store runs without
	// them. The repository shares the store's connection pool.
	var favorites handler.FavoriteStore
	if db != nil {
		favorites = repository.NewFavoriteRepository(db)
	}

	// Initialize services
	queryService := service.NewQueryService(store, &service.QueryConfig{
		PopularLimit: cfg.Query.PopularLimit,
		RandomCount:  cfg.Query.RandomCount,
	})
	importService := service.NewImportService(store, appLogger, nil)

	// Dataset sources
	sources := map[string]source.DatasetSource{
		"bundled": bundled.NewAdapter(cfg.Dataset.Path),
	}

	// Seed an empty catalog from the bundled dataset so a cold start always
	// serves data
	ctx := context.Background()
	count, err := store.Count(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to inspect catalog store")
	}
	if count == 0 {
		stats, err := importService.Run(ctx, sources["bundled"])
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to seed catalog")
		}
		appLogger.WithFields(logger.Fields{
			"imported": stats.Imported,
			"skipped":  stats.Skipped,
		}).Info("Seeded catalog from bundled dataset")
	}

	// Setup router
	router := api.SetupRouter(store, queryService, importService, favorites, sources, cfg, appLogger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
