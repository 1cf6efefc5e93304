package service

import (
	"time"

	"lumina/video-api/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StuckVideoCleanup periodically marks videos that have been sitting
// in the processing state for longer than maxAge as failed. Analysis
// has no retry, so anything that old isn't going to finish
func StuckVideoCleanup(tick, maxAge time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(tick)

	zap.L().Debug("Stuck video cleanup attached", zap.Duration("tick_every", tick))

	go func() {
		for range ticker.C {
			res := db.
				Model(model.Video{}).
				Where("status = ? AND created_at < ?", model.StatusProcessing, time.Now().Add(-maxAge)).
				Update("status", model.StatusFailed)
			if res.Error != nil {
				zap.L().Error("Failed to mark stuck videos as failed", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Warn("Marked stuck videos as failed", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}
