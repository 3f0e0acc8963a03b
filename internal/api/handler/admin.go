package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uozumi/gyodex/internal/domain"
	"github.com/uozumi/gyodex/internal/logger"
	"github.com/uozumi/gyodex/internal/repository"
	"github.com/uozumi/gyodex/internal/service"
	"github.com/uozumi/gyodex/internal/source"
)

// AdminHandler handles administrative catalog operations. Unlike the read
// path, admin endpoints surface storage failures as 5xx instead of masking
// them: the operator needs to see them.
type AdminHandler struct {
	store         repository.Store
	importService *service.ImportService
	sources       map[string]source.DatasetSource
	logger        *logger.Logger
}

// NewAdminHandler creates a new admin handler.
// Parameters:
//   - store: catalog store for direct record mutations.
//   - importService: import service instance.
//   - sources: dataset sources keyed by name.
//   - log: logger instance.
// Returns:
//   - *AdminHandler: initialized handler.
func NewAdminHandler(store repository.Store, importService *service.ImportService, sources map[string]source.DatasetSource, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		store:         store,
		importService: importService,
		sources:       sources,
		logger:        log,
	}
}

// log returns a logger from Gin context if available, otherwise returns the default logger
func (h *AdminHandler) log(c *gin.Context) *logger.Logger {
	if l := logger.FromContext(c.Request.Context()); l != nil {
		return l
	}
	return h.logger
}

// UpsertFish handles PUT /api/v1/admin/fish/:id. The path id wins over any
// id in the body so a record cannot be re-keyed by accident.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) UpsertFish(c *gin.Context) {
	var fish domain.Fish
	if err := c.ShouldBindJSON(&fish); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}
	fish.ID = c.Param("id")

	if err := h.store.Upsert(c.Request.Context(), &fish); err != nil {
		h.log(c).WithError(err).Error("Upsert failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save fish: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, fish)
}

// DeleteFish handles DELETE /api/v1/admin/fish/:id. Deleting a missing id
// succeeds as a no-op.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) DeleteFish(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.log(c).WithError(err).Error("Delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete fish: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// ImportRequest selects the dataset source for an import run.
type ImportRequest struct {
	Source string `json:"source"`
}

// ImportResponse reports the outcome of an import run.
type ImportResponse struct {
	Message string               `json:"message"`
	Stats   *service.ImportStats `json:"stats,omitempty"`
}

func (h *AdminHandler) resolveSource(c *gin.Context) (source.DatasetSource, bool) {
	var req ImportRequest
	_ = c.ShouldBindJSON(&req)
	if req.Source == "" {
		req.Source = "bundled"
	}

	src, ok := h.sources[req.Source]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown source: " + req.Source,
		})
		return nil, false
	}
	return src, true
}

// Import handles POST /api/v1/admin/import: upserts every record the source
// yields. Skipped entries are reported in the stats, not treated as fatal.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) Import(c *gin.Context) {
	src, ok := h.resolveSource(c)
	if !ok {
		return
	}

	stats, err := h.importService.Run(c.Request.Context(), src)
	if err != nil {
		h.log(c).WithError(err).Error("Import failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Import failed: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ImportResponse{Message: "import complete", Stats: stats})
}

// Reset handles POST /api/v1/admin/reset: destroys the catalog and reloads
// it from the canonical bundled dataset. Recovery use only.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) Reset(c *gin.Context) {
	src, ok := h.resolveSource(c)
	if !ok {
		return
	}

	stats, err := h.importService.Reset(c.Request.Context(), src)
	if err != nil {
		h.log(c).WithError(err).Error("Reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Reset failed: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ImportResponse{Message: "catalog reset", Stats: stats})
}
