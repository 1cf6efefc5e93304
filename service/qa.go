package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lumina/video-api/ai"
	"lumina/video-api/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrVideoNotFound is returned when a question references a video
// that doesn't exist
var ErrVideoNotFound = errors.New("video not found")

// Answerer answers free-text questions about a video using only its
// segment metadata as context. Stateless per call apart from the
// history write
type Answerer struct {
	DB *gorm.DB
	AI ai.Completer
}

type qaReply struct {
	Answer             string   `json:"answer"`
	RelevantTimestamps []string `json:"relevant_timestamps"`
}

const qaPrompt = `You are answering questions about the video "%s" using ONLY the segment data below. Do not invent information that isn't in it.

Segment data:
%s
Question: %s

Answer the question, then on the last line emit a JSON object of the form {"answer": "<your answer>", "relevant_timestamps": ["HH:MM:SS", ...]} listing the timestamps your answer refers to.`

const noSegmentsPlaceholder = "No segment data is available for this video yet."

// Answer runs one gateway call and returns the answer plus the
// timestamps it references. The exchange is persisted as history, but
// a failed insert only gets logged, the caller still sees the answer
func (a *Answerer) Answer(ctx context.Context, videoID, question string) (string, []string, error) {
	var video model.Video
	err := a.DB.First(&video, "id = ?", videoID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrVideoNotFound
		}

		return "", nil, fmt.Errorf("failed to fetch video, %w", err)
	}

	var segments []model.VideoSegment
	err = a.DB.
		Where("video_id = ?", videoID).
		Order("timestamp").
		Find(&segments).
		Error
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch segments, %w", err)
	}

	reply, err := a.AI.Complete(ctx, fmt.Sprintf(qaPrompt, video.Title, contextBlock(segments), question))
	if err != nil {
		return "", nil, err
	}

	answer, timestamps := parseAnswer(reply)

	err = a.DB.
		Create(&model.QAHistory{
			ID:                 uuid.NewString(),
			VideoID:            videoID,
			Question:           question,
			Answer:             answer,
			RelevantTimestamps: timestamps,
		}).
		Error
	if err != nil {
		// History is best-effort, the answer still goes out
		zap.L().Error("Failed to save Q&A history", zap.Error(err), zap.String("video_id", videoID))
	}

	return answer, timestamps, nil
}

// contextBlock renders segments into one line each for the prompt
func contextBlock(segments []model.VideoSegment) string {
	if len(segments) == 0 {
		return noSegmentsPlaceholder
	}

	var b strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&b, "[%s] %s", seg.TimestampFormatted, seg.Description)
		if seg.Transcript != "" {
			fmt.Fprintf(&b, " | Transcript: %s", seg.Transcript)
		}
		if seg.OCRText != "" {
			fmt.Fprintf(&b, " | On-screen text: %s", seg.OCRText)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// parseAnswer extracts the trailing JSON object from the reply. When
// that fails the raw reply text is the answer, with no timestamps
func parseAnswer(reply string) (string, []string) {
	frag, err := ai.ExtractJSONObject(reply)
	if err != nil {
		return reply, []string{}
	}

	var parsed qaReply
	if err := json.Unmarshal([]byte(frag), &parsed); err != nil || parsed.Answer == "" {
		return reply, []string{}
	}

	if parsed.RelevantTimestamps == nil {
		parsed.RelevantTimestamps = []string{}
	}

	return parsed.Answer, parsed.RelevantTimestamps
}
