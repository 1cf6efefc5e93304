package api

import (
	"context"
	"errors"
	"net/http"

	"lumina/video-api/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VideoDelete removes a video row (segments and Q&A history cascade
// with it) and its objects in the bucket. Object deletion failures
// are logged but don't fail the request, orphaned objects are cheaper
// than a half-deleted video
func (a *API) VideoDelete(c *gin.Context) {
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

	err = a.DB.Delete(&video).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete video", zap.Error(err))
		return
	}

	if a.S3 != nil {
		for _, key := range []string{video.StoragePath, video.ThumbnailPath} {
			if key == "" {
				continue
			}

			_, err := a.S3.C.DeleteObject(context.Background(), &s3.DeleteObjectInput{
				Bucket: a.S3.Bucket,
				Key:    aws.String(key),
			})
			if err != nil {
				zap.L().Error("Failed to delete object", zap.Error(err), zap.String("key", key))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
