package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/uozumi/gyodex/internal/service"
)

// FishHandler handles catalog browsing endpoints.
type FishHandler struct {
	queryService *service.QueryService
}

// NewFishHandler creates a new fish handler.
// Parameters:
//   - queryService: query service instance.
// Returns:
//   - *FishHandler: initialized handler.
func NewFishHandler(queryService *service.QueryService) *FishHandler {
	return &FishHandler{
		queryService: queryService,
	}
}

// ListFish handles GET /api/v1/fish. Optional habitat and preparation query
// parameters narrow the list through an id intersection; without them the
// full catalog is returned.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FishHandler) ListFish(c *gin.Context) {
	habitat := c.Query("habitat")
	preparation := c.Query("preparation")

	results, err := h.queryService.IntersectFilters(c.Request.Context(), habitat, preparation)
	respondList(c, results, err)
}

// GetFish handles GET /api/v1/fish/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FishHandler) GetFish(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Fish ID is required",
		})
		return
	}

	fish, err := h.queryService.GetByID(c.Request.Context(), id)
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

	c.JSON(http.StatusOK, fish)
}

// RandomFish handles GET /api/v1/fish/random.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FishHandler) RandomFish(c *gin.Context) {
	count, _ := strconv.Atoi(c.DefaultQuery("count", "0"))

	results, err := h.queryService.Random(c.Request.Context(), count)
	respondList(c, results, err)
}

// PopularFish handles GET /api/v1/fish/popular.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FishHandler) PopularFish(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	results, err := h.queryService.Popular(c.Request.Context(), limit)
	respondList(c, results, err)
}

// SushiCandidates handles GET /api/v1/fish/sushi.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FishHandler) SushiCandidates(c *gin.Context) {
	results, err := h.queryService.SushiCandidates(c.Request.Context())
	respondList(c, results, err)
}
