package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type analyzeRequest struct {
	VideoID  string `json:"videoId"`
	VideoURL string `json:"videoUrl"`
	Title    string `json:"title"`
}

// Analyze fabricates segment metadata for a video and marks it ready.
// Everything that goes wrong here answers 500, including validation,
// so the frontend only has one error shape to deal with
func (a *API) Analyze(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if req.VideoID == "" || req.VideoURL == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "videoId and videoUrl are required",
			"requestID": requestID,
		})
		return
	}

	count, err := a.Analyzer.Analyze(c.Request.Context(), req.VideoID, req.VideoURL, req.Title)
	if err != nil {
		msg := userErrorMessage(err)

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     msg,
			"requestID": requestID,
		})

		zap.L().Error("Analysis failed", zap.Error(err), zap.String("video_id", req.VideoID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"segmentsCreated": count,
	})
}
