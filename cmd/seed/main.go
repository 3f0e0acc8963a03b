package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/uozumi/gyodex/internal/config"
	"github.com/uozumi/gyodex/internal/logger"
	"github.com/uozumi/gyodex/internal/repository"
	"github.com/uozumi/gyodex/internal/service"
	"github.com/uozumi/gyodex/internal/source/bundled"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		ServiceName: "gyodex-seed",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	datasetPath := flag.String("dataset", "", "Path to the dataset document (overrides config)")
	reset := flag.Bool("reset", false, "Destroy the catalog and reload it from the dataset")
	enrich := flag.Bool("enrich", false, "Fill empty descriptive fields from public sources")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}
	if *datasetPath != "" {
		cfg.Dataset.Path = *datasetPath
	}

	appLogger.WithFields(logger.Fields{
		"dataset": cfg.Dataset.Path,
		"driver":  cfg.Database.Driver,
		"reset":   *reset,
		"enrich":  *enrich,
	}).Info("Starting catalog seed")

	// Initialize the catalog store
	store, _, err := repository.NewStore(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open catalog store")
	}

	importService := service.NewImportService(store, appLogger, nil)
	src := bundled.NewAdapter(cfg.Dataset.Path)

	// Cancel the run on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		appLogger.Warn("Interrupted, stopping")
		cancel()
	}()

	var stats *service.ImportStats
	if *reset {
		stats, err = importService.Reset(ctx, src)
	} else {
		stats, err = importService.Run(ctx, src)
	}
	if err != nil {
		appLogger.WithError(err).Fatal("Seed failed")
	}

	appLogger.WithFields(logger.Fields{
		"imported":    stats.Imported,
		"skipped":     stats.Skipped,
		"duration_ms": stats.Duration,
	}).Info("Seed complete")

	if *enrich {
		runEnrichment(ctx, cfg, store, appLogger)
	}
}

// runEnrichment fills empty descriptive fields record by record. Source
// failures fall back to generic text, so a flaky network never fails the run.
func runEnrichment(ctx context.Context, cfg *config.Config, store repository.Store, appLogger *logger.Logger) {
	enrichService := service.NewEnrichService(&service.EnrichConfig{
		Enabled:          true,
		WikipediaBaseURL: cfg.Enrich.WikipediaBaseURL,
		FishBaseURL:      cfg.Enrich.FishBaseURL,
		Timeout:          cfg.Enrich.Timeout,
	}, appLogger)

	records, err := store.LoadAll(ctx)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load catalog for enrichment")
	}

	enriched := 0
	for i := range records {
		f := &records[i]
		if f.Description != "" && f.Lifespan != "" && f.Size != "" && f.Weight != "" {
			continue
		}
		if err := enrichService.Enrich(ctx, f); err != nil {
			appLogger.WithError(err).Warnf("Enrichment unavailable for %s", f.ID)
			continue
		}
		if err := store.Upsert(ctx, f); err != nil {
			appLogger.WithError(err).Warnf("Failed to save enriched record %s", f.ID)
			continue
		}
		enriched++
	}

	appLogger.WithField(logger.FieldCount, enriched).Info("Enrichment complete")
}
