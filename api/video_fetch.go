package api

import (
	"errors"
	"net/http"

	"lumina/video-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) VideoFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	videoID := c.Param("id")

	var video model.Video
	err := a.DB.First(&video, "id = ?", videoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Video not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch video", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, video)
}
