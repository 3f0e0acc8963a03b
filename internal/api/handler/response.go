package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uozumi/gyodex/internal/domain"
	"github.com/uozumi/gyodex/internal/logger"
)

// ListResponse is the envelope for every endpoint returning fish records.
// Degraded is set when a storage failure was masked into an empty result:
// clients cannot tell "no matches" from "store down" otherwise, and should
// offer a retry instead of showing a hard empty state.
type ListResponse struct {
	Results  []domain.Fish `json:"results"`
	Total    int           `json:"total"`
	Degraded bool          `json:"degraded,omitempty"`
}

// respondList writes a fish list, applying the read-path failure policy:
// storage errors are logged and masked into an empty, degraded 200 response.
func respondList(c *gin.Context, results []domain.Fish, err error) {
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Error("Query failed, serving degraded empty result")
		c.JSON(http.StatusOK, ListResponse{
			Results:  []domain.Fish{},
			Total:    0,
			Degraded: true,
		})
		return
	}
	if results == nil {
		results = []domain.Fish{}
	}
	c.JSON(http.StatusOK, ListResponse{
		Results: results,
		Total:   len(results),
	})
}

// respondTokens writes a string list with the same failure policy.
func respondTokens(c *gin.Context, key string, tokens []string, err error) {
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Error("Query failed, serving degraded empty result")
		c.JSON(http.StatusOK, gin.H{key: []string{}, "degraded": true})
		return
	}
	if tokens == nil {
		tokens = []string{}
	}
	c.JSON(http.StatusOK, gin.H{key: tokens})
}
