package api

import (
	"net/http"

	"lumina/video-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoFetchBulk lists every video, newest first. The client polls
// this to watch status flip from processing to ready, hence the short
// cache on the route
func (a *API) VideoFetchBulk(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var videos []model.Video
	err := a.DB.
		Order("created_at desc").
		Find(&videos).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch videos", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"videos": videos,
	})
}
