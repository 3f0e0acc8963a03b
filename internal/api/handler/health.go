package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uozumi/gyodex/internal/repository"
)

// HealthHandler reports service and catalog readiness.
type HealthHandler struct {
	store repository.Store
}

// NewHealthHandler creates a new health handler.
// Parameters:
//   - store: catalog store to probe.
// Returns:
//   - *HealthHandler: initialized handler.
func NewHealthHandler(store repository.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health. An unreachable store reports degraded with a
// 200 status, consistent with the read path's fail-soft policy; load
// balancers keep routing while the store recovers.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *HealthHandler) Health(c *gin.Context) {
	count, err := h.store.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":  "degraded",
			"service": "gyodex",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "gyodex",
		"species": count,
	})
}
