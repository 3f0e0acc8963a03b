package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/uozumi/gyodex/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FishRepository is the relational Store implementation backed by GORM.
type FishRepository struct {
	db *gorm.DB
}

// NewFishRepository creates a new FishRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *FishRepository: repository instance bound to db.
func NewFishRepository(db *gorm.DB) *FishRepository {
	return &FishRepository{db: db}
}

// LoadAll retrieves every catalog record ordered by unique_name ascending.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Fish: all records in display order.
//   - error: non-nil if the query fails.
func (r *FishRepository) LoadAll(ctx context.Context) ([]domain.Fish, error) {
	var fish []domain.Fish
	if err := r.db.WithContext(ctx).
		Order("unique_name ASC").
		Find(&fish).Error; err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	for i := range fish {
		fish[i].Normalize()
	}
	return fish, nil
}

// GetByID retrieves a fish by its ID. Absence is not an error: a missing id
// yields (nil, nil).
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: fish ID.
// Returns:
//   - *domain.Fish: fish record if found, nil otherwise.
//   - error: non-nil if the lookup fails.
func (r *FishRepository) GetByID(ctx context.Context, id string) (*domain.Fish, error) {
	var fish domain.Fish
	if err := r.db.WithContext(ctx).First(&fish, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fish %s: %w", id, err)
	}
	fish.Normalize()
	return &fish, nil
}

// Upsert creates or replaces a fish record keyed by id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - fish: fish record to create or update.
// Returns:
//   - error: non-nil if the upsert fails.
func (r *FishRepository) Upsert(ctx context.Context, fish *domain.Fish) error {
	fish.Normalize()
	if err := fish.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(fish).Error
}

// Delete removes a fish by ID. Deleting a missing id succeeds as a no-op.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: fish ID to delete.
// Returns:
//   - error: non-nil if the delete fails.
func (r *FishRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Fish{}, "id = ?", id).Error
}

// Count returns the number of records currently stored.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of catalog records.
//   - error: non-nil if the query fails.
func (r *FishRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Fish{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count catalog: %w", err)
	}
	return count, nil
}

// Reset destroys the current catalog and loads the given records in a single
// transaction. Recovery and test use only, never a hot path.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - records: canonical dataset to load.
// Returns:
//   - error: non-nil if the rebuild fails.
func (r *FishRepository) Reset(ctx context.Context, records []domain.Fish) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Fish{}).Error; err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
		for i := range records {
			records[i].Normalize()
			if err := tx.Create(&records[i]).Error; err != nil {
				return fmt.Errorf("failed to load record %s: %w", records[i].ID, err)
			}
		}
		return nil
	})
}
