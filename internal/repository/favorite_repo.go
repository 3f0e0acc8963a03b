package repository

import (
	"context"
	"fmt"

	"github.com/uozumi/gyodex/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository handles favorite data operations.
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *FavoriteRepository: repository instance bound to db.
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add marks a fish as favorite for a user. Adding an existing favorite is a
// no-op so the operation is idempotent.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owner of the favorite.
//   - fishID: fish to favorite.
// Returns:
//   - error: non-nil if the insert fails.
func (r *FavoriteRepository) Add(ctx context.Context, userID, fishID string) error {
	fav := domain.Favorite{UserID: userID, FishID: fishID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&fav).Error
}

// Remove drops a favorite; removing a missing one succeeds as a no-op.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owner of the favorite.
//   - fishID: fish to unfavorite.
// Returns:
//   - error: non-nil if the delete fails.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, fishID string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Favorite{}, "user_id = ? AND fish_id = ?", userID, fishID).Error
}

// ListIDs returns the fish IDs a user has favorited, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owner of the favorites.
// Returns:
//   - []string: favorited fish IDs.
//   - error: non-nil if the query fails.
func (r *FavoriteRepository) ListIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("fish_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return ids, nil
}

// IsFavorite checks whether a user has favorited a fish.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owner of the favorite.
//   - fishID: fish ID to check.
// Returns:
//   - bool: true if a favorite exists.
//   - error: non-nil if the lookup fails.
func (r *FavoriteRepository) IsFavorite(ctx context.Context, userID, fishID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ? AND fish_id = ?", userID, fishID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
