package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/uozumi/gyodex/internal/config"
	"github.com/uozumi/gyodex/internal/domain"
	"gorm.io/gorm"
)

// ErrStoreUnavailable indicates the backing medium could not be opened or
// created. Wrapped around the driver-level cause.
var ErrStoreUnavailable = errors.New("catalog store unavailable")

// Store defines the interface for catalog persistence. Both backends honor
// the same contract:
//   - LoadAll returns every record ordered by unique_name ascending.
//   - GetByID returns (nil, nil) when no record has the id; absence is not
//     an error.
//   - Upsert inserts or replaces by id and is idempotent on identical input.
//   - Delete is a no-op when the id does not exist.
//   - Reset destroys the current contents and loads the given records;
//     recovery and test use only.
//
// Mutations are durable before returning success, to the extent the backing
// medium guarantees it.
type Store interface {
	LoadAll(ctx context.Context) ([]domain.Fish, error)
	GetByID(ctx context.Context, id string) (*domain.Fish, error)
	Upsert(ctx context.Context, fish *domain.Fish) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Reset(ctx context.Context, records []domain.Fish) error
}

// NewStore creates a Store based on the configured driver. For relational
// drivers the underlying handle is returned too, so callers can hang further
// repositories off the same connection pool instead of opening a second one.
// Parameters:
//   - cfg: database configuration including driver and connection settings.
// Returns:
//   - Store: initialized catalog store implementation.
//   - *gorm.DB: shared database handle, nil for the memory backend.
//   - error: non-nil if the store cannot be opened.
func NewStore(cfg *config.DatabaseConfig) (Store, *gorm.DB, error) {
	if cfg.Driver == "memory" {
		return NewMemoryStore(), nil, nil
	}

	db, err := InitDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return NewFishRepository(db), db, nil
}
