package api

import (
	"errors"
	"net/http"

	"lumina/video-api/ai"
	"lumina/video-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type qaRequest struct {
	Question string `json:"question"`
	VideoID  string `json:"videoId"`
}

// QA answers a question about one video from its segment metadata and
// records the exchange
func (a *API) QA(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req qaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if req.Question == "" || req.VideoID == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "question and videoId are required",
			"requestID": requestID,
		})
		return
	}

	answer, timestamps, err := a.Answerer.Answer(c.Request.Context(), req.VideoID, req.Question)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Video not found",
				"requestID": requestID,
			})
			return
		}

		msg := userErrorMessage(err)

		c.AbortWithStatusJSON(ai.HTTPStatus(err), gin.H{
			"error":     msg,
			"requestID": requestID,
		})

		zap.L().Error("Q&A failed", zap.Error(err), zap.String("video_id", req.VideoID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":              answer,
		"relevant_timestamps": timestamps,
	})
}

// userErrorMessage picks what the client gets to see. AI layer errors
// have curated messages, anything else stays generic
func userErrorMessage(err error) string {
	if msg := ai.UserMessage(err); msg != "" {
		return msg
	}

	return "Internal server error"
}
