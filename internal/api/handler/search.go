package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uozumi/gyodex/internal/logger"
	"github.com/uozumi/gyodex/internal/service"
)

// SearchHandler handles search and catalog-metadata endpoints.
type SearchHandler struct {
	queryService *service.QueryService
}

// NewSearchHandler creates a new search handler.
// Parameters:
//   - queryService: query service instance.
// Returns:
//   - *SearchHandler: initialized handler.
func NewSearchHandler(queryService *service.QueryService) *SearchHandler {
	return &SearchHandler{
		queryService: queryService,
	}
}

// Search handles GET /api/v1/search. A blank q returns the full catalog.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SearchHandler) Search(c *gin.Context) {
	q := c.Query("q")

	results, err := h.queryService.Search(c.Request.Context(), q)
	respondList(c, results, err)
}

// SearchJapanese handles GET /api/v1/search/japanese. Matches the romaji
// name case-insensitively and the kanji name exact-case.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SearchHandler) SearchJapanese(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter 'name' is required",
		})
		return
	}

	results, err := h.queryService.ByJapaneseName(c.Request.Context(), name)
	respondList(c, results, err)
}

// Habitats handles GET /api/v1/habitats.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SearchHandler) Habitats(c *gin.Context) {
	tokens, err := h.queryService.DistinctHabitats(c.Request.Context())
	respondTokens(c, "habitats", tokens, err)
}

// Preparations handles GET /api/v1/preparations.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SearchHandler) Preparations(c *gin.Context) {
	tokens, err := h.queryService.DistinctPreparations(c.Request.Context())
	respondTokens(c, "preparations", tokens, err)
}

// GetStats handles GET /api/v1/stats.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SearchHandler) GetStats(c *gin.Context) {
	stats, err := h.queryService.GetStats(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Error("Stats query failed")
		c.JSON(http.StatusOK, gin.H{"degraded": true})
		return
	}
	c.JSON(http.StatusOK, stats)
}
