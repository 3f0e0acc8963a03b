package service

import (
	"context"
	"fmt"
	"time"

	"github.com/uozumi/gyodex/internal/logger"
	"github.com/uozumi/gyodex/internal/repository"
	"github.com/uozumi/gyodex/internal/source"
)

// ImportService populates the catalog store from a dataset source.
type ImportService struct {
	store     repository.Store
	logger    *logger.Logger
	batchSize int
}

// ImportConfig holds configuration for the import service
type ImportConfig struct {
	BatchSize int
}

// ImportStats holds statistics for an import run. Skipped is the
// partial-failure count: entries the source or the store rejected without
// aborting the run.
type ImportStats struct {
	Imported int   `json:"imported"`
	Skipped  int   `json:"skipped"`
	Duration int64 `json:"duration_ms"`
}

// NewImportService creates a new import service.
// Parameters:
//   - store: catalog store to populate.
//   - log: logger instance.
//   - cfg: import configuration; nil uses defaults.
// Returns:
//   - *ImportService: initialized import service.
func NewImportService(store repository.Store, log *logger.Logger, cfg *ImportConfig) *ImportService {
	batchSize := 50
	if cfg != nil && cfg.BatchSize > 0 {
		batchSize = cfg.BatchSize
	}
	return &ImportService{
		store:     store,
		logger:    log,
		batchSize: batchSize,
	}
}

// log returns a logger from context if available, otherwise returns the default logger
func (s *ImportService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Run imports every record the source yields, upserting by id. Source-side
// parse failures and store-side rejects are counted, not fatal; only a
// source or store breakdown aborts the run.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - src: dataset source to drain.
// Returns:
//   - *ImportStats: imported/skipped counts and duration.
//   - error: non-nil if the run aborts.
func (s *ImportService) Run(ctx context.Context, src source.DatasetSource) (*ImportStats, error) {
	start := time.Now()
	log := s.log(ctx).WithField(logger.FieldSource, src.GetSourceID())

	stats := &ImportStats{}
	cursor := ""
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		records, nextCursor, err := src.FetchBatch(ctx, cursor, s.batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch batch from %s: %w", src.GetSourceID(), err)
		}
		if len(records) == 0 {
			break
		}

		for i := range records {
			if err := s.store.Upsert(ctx, &records[i]); err != nil {
				log.WithError(err).Warnf("Skipping record %s", records[i].ID)
				stats.Skipped++
				continue
			}
			stats.Imported++
		}

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	stats.Skipped += src.Skipped()
	stats.Duration = time.Since(start).Milliseconds()

	logger.With(logger.Fields{
		logger.FieldCount:      stats.Imported,
		logger.FieldDurationMs: stats.Duration,
	}).Info(ctx, "Import finished: source=%s, skipped=%d", src.GetSourceID(), stats.Skipped)

	return stats, nil
}

// Reset destroys the store contents and reloads them from the source's
// canonical dataset. Recovery and test use only.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - src: dataset source holding the canonical records.
// Returns:
//   - *ImportStats: loaded/skipped counts and duration.
//   - error: non-nil if the rebuild fails.
func (s *ImportService) Reset(ctx context.Context, src source.DatasetSource) (*ImportStats, error) {
	start := time.Now()

	records, cursor, err := src.FetchBatch(ctx, "", s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch canonical dataset: %w", err)
	}
	for cursor != "" {
		batch, next, err := src.FetchBatch(ctx, cursor, s.batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch canonical dataset: %w", err)
		}
		records = append(records, batch...)
		cursor = next
	}

	if err := s.store.Reset(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to reset store: %w", err)
	}

	stats := &ImportStats{
		Imported: len(records),
		Skipped:  src.Skipped(),
		Duration: time.Since(start).Milliseconds(),
	}
	s.log(ctx).Infof("Catalog reset: loaded=%d skipped=%d", stats.Imported, stats.Skipped)
	return stats, nil
}
