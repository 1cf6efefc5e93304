package service

import (
	"context"
	"testing"

	"lumina/video-api/ai"
	"lumina/video-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeParsesModelReply(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db, "Demo", model.StatusProcessing)

	a := &Analyzer{DB: db, AI: &fakeAI{reply: `Here you go:
[
  {"timestamp": 10, "description": "A person walks in", "transcript": "Hi there", "detected_objects": {"person": 1}},
  {"timestamp": 600, "description": "Credits roll", "ocr_text": "THE END"}
]`}}

	count, err := a.Analyze(context.Background(), video.ID, "https://cdn.example/demo.mp4", "Demo")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var segments []model.VideoSegment
	require.NoError(t, db.Where("video_id = ?", video.ID).Order("timestamp").Find(&segments).Error)
	require.Len(t, segments, 2)

	assert.Equal(t, "A person walks in", segments[0].Description)
	assert.Equal(t, "00:00:10", segments[0].TimestampFormatted)
	assert.Equal(t, 1, segments[0].DetectedObjects["person"])
	assert.Contains(t, segments[0].EmbeddingText, "Hi there")

	assert.Equal(t, "00:10:00", segments[1].TimestampFormatted)
	assert.Contains(t, segments[1].EmbeddingText, "THE END")

	for _, s := range segments {
		assert.GreaterOrEqual(t, s.Confidence, 0.85)
		assert.LessOrEqual(t, s.Confidence, 1.0)
	}

	var updated model.Video
	require.NoError(t, db.First(&updated, "id = ?", video.ID).Error)
	assert.Equal(t, model.StatusReady, updated.Status)
	assert.Equal(t, 630.0, updated.Duration)
}

func TestAnalyzeFallsBackOnUnparseableReply(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db, "Demo", model.StatusProcessing)

	a := &Analyzer{DB: db, AI: &fakeAI{reply: "I'm sorry, I can't produce structured data right now."}}

	count, err := a.Analyze(context.Background(), video.ID, "https://cdn.example/demo.mp4", "Demo")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	var segments []model.VideoSegment
	require.NoError(t, db.Where("video_id = ?", video.ID).Order("timestamp").Find(&segments).Error)
	require.Len(t, segments, 4)

	timestamps := make([]float64, len(segments))
	for i, s := range segments {
		timestamps[i] = s.Timestamp
	}
	assert.Equal(t, []float64{0, 30, 60, 120}, timestamps)

	var updated model.Video
	require.NoError(t, db.First(&updated, "id = ?", video.ID).Error)
	assert.Equal(t, model.StatusReady, updated.Status)
	assert.Equal(t, 150.0, updated.Duration)
}

func TestAnalyzeNormalizesSegments(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db, "Demo", model.StatusProcessing)

	// Negative timestamp and missing description get defaulted
	a := &Analyzer{DB: db, AI: &fakeAI{reply: `[{"timestamp": -5}]`}}

	_, err := a.Analyze(context.Background(), video.ID, "https://cdn.example/demo.mp4", "Demo")
	require.NoError(t, err)

	var seg model.VideoSegment
	require.NoError(t, db.First(&seg, "video_id = ?", video.ID).Error)

	assert.Equal(t, 0.0, seg.Timestamp)
	assert.Equal(t, "00:00:00", seg.TimestampFormatted)
	assert.Equal(t, "Scene at 00:00:00", seg.Description)
	assert.NotNil(t, seg.DetectedObjects)
}

func TestAnalyzeGatewayErrorLeavesVideoProcessing(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db, "Demo", model.StatusProcessing)

	a := &Analyzer{DB: db, AI: &fakeAI{err: ai.ErrNoAPIKey}}

	_, err := a.Analyze(context.Background(), video.ID, "https://cdn.example/demo.mp4", "Demo")
	require.ErrorIs(t, err, ai.ErrNoAPIKey)

	var count int64
	require.NoError(t, db.Model(model.VideoSegment{}).Where("video_id = ?", video.ID).Count(&count).Error)
	assert.Zero(t, count)

	var updated model.Video
	require.NoError(t, db.First(&updated, "id = ?", video.ID).Error)
	assert.Equal(t, model.StatusProcessing, updated.Status)
}
