package service

import (
	"context"
	"testing"

	"lumina/video-api/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeAI is a canned gateway for tests. It records the last prompt so
// tests can assert on what was sent
type fakeAI struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeAI) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}

	return f.reply, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.Video{}, model.VideoSegment{}, model.QAHistory{}))

	return db
}

func seedVideo(t *testing.T, db *gorm.DB, title, status string) model.Video {
	t.Helper()

	v := model.Video{
		ID:          uuid.NewString(),
		Title:       title,
		Filename:    title + ".mp4",
		StoragePath: title + ".mp4",
		Status:      status,
	}
	require.NoError(t, db.Create(&v).Error)

	return v
}

func seedSegment(t *testing.T, db *gorm.DB, videoID string, ts float64, description string, objects model.ObjectCounts) model.VideoSegment {
	t.Helper()

	s := model.VideoSegment{
		ID:                 uuid.NewString(),
		VideoID:            videoID,
		Timestamp:          ts,
		TimestampFormatted: "00:00:00",
		Description:        description,
		DetectedObjects:    objects,
		EmbeddingText:      description,
		Confidence:         0.9,
	}
	require.NoError(t, db.Create(&s).Error)

	return s
}
