package api

import (
	"net/http"

	"lumina/video-api/ai"
	"lumina/video-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type searchRequest struct {
	Query   string           `json:"query"`
	VideoID string           `json:"videoId"`
	Filters *service.Filters `json:"filters"`
}

// Search ranks segments of ready videos against a query. Gateway
// rate-limit and billing statuses pass through so the frontend can
// tell them apart, everything else is a 500
func (a *API) Search(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Invalid request body",
			"results":   []any{},
			"requestID": requestID,
		})
		return
	}

	if req.Query == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "query is required",
			"results":   []any{},
			"requestID": requestID,
		})
		return
	}

	results, message, err := a.Searcher.Search(c.Request.Context(), req.Query, req.VideoID, req.Filters)
	if err != nil {
		msg := userErrorMessage(err)

		c.AbortWithStatusJSON(ai.HTTPStatus(err), gin.H{
			"error":     msg,
			"results":   []any{},
			"requestID": requestID,
		})

		zap.L().Error("Search failed", zap.Error(err))
		return
	}

	if message != "" {
		c.JSON(http.StatusOK, gin.H{
			"results": results,
			"message": message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}
