package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uozumi/gyodex/internal/domain"
	"github.com/uozumi/gyodex/internal/service"
)

// defaultUser scopes favorites when the client sends no X-User-ID header.
const defaultUser = "local"

// FavoriteStore is the favorites persistence the handler needs. Satisfied by
// repository.FavoriteRepository.
type FavoriteStore interface {
	Add(ctx context.Context, userID, fishID string) error
	Remove(ctx context.Context, userID, fishID string) error
	ListIDs(ctx context.Context, userID string) ([]string, error)
	IsFavorite(ctx context.Context, userID, fishID string) (bool, error)
}

// FavoriteHandler handles favorites endpoints.
type FavoriteHandler struct {
	favorites    FavoriteStore
	queryService *service.QueryService
}

// NewFavoriteHandler creates a new favorites handler.
// Parameters:
//   - favorites: favorites store.
//   - queryService: query service for record lookups.
// Returns:
//   - *FavoriteHandler: initialized handler.
func NewFavoriteHandler(favorites FavoriteStore, queryService *service.QueryService) *FavoriteHandler {
	return &FavoriteHandler{
		favorites:    favorites,
		queryService: queryService,
	}
}

func userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return defaultUser
}

// ListFavorites handles GET /api/v1/favorites. Favorited ids pointing at
// records that no longer exist are silently dropped from the response.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	ctx := c.Request.Context()

	ids, err := h.favorites.ListIDs(ctx, userID(c))
	if err != nil {
		respondList(c, nil, err)
		return
	}

	results := make([]domain.Fish, 0, len(ids))
	for _, id := range ids {
		fish, err := h.queryService.GetByID(ctx, id)
		if err != nil {
			respondList(c, nil, err)
			return
		}
		if fish != nil {
			results = append(results, *fish)
		}
	}
	respondList(c, results, nil)
}

// AddFavorite handles PUT /api/v1/favorites/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	fish, err := h.queryService.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to look up fish",
		})
		return
	}
	if fish == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Fish not found",
		})
		return
	}

	if err := h.favorites.Add(ctx, userID(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save favorite",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": id})
}

// FavoriteStatus handles GET /api/v1/favorites/:id: reports whether the
// user has favorited the fish without transferring the whole record.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FavoriteHandler) FavoriteStatus(c *gin.Context) {
	id := c.Param("id")

	favorited, err := h.favorites.IsFavorite(c.Request.Context(), userID(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to look up favorite",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fish_id": id, "favorited": favorited})
}

// RemoveFavorite handles DELETE /api/v1/favorites/:id. Removing a missing
// favorite succeeds.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	id := c.Param("id")

	if err := h.favorites.Remove(c.Request.Context(), userID(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove favorite",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": id})
}
