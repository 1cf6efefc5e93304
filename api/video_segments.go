package api

import (
	"net/http"

	"lumina/video-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoSegments returns a video's segments ordered by timestamp, used
// by the client to draw timeline markers
func (a *API) VideoSegments(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	videoID := c.Param("id")

	var segments []model.VideoSegment
	err := a.DB.
		Where("video_id = ?", videoID).
		Order("timestamp").
		Find(&segments).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch segments", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"segments": segments,
	})
}
