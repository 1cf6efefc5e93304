package model

import "time"

// VideoSegment is a timestamped annotation attached to a video.
// Segments are written in bulk by the analyzer and never updated,
// they only go away when their video is deleted
type VideoSegment struct {
	ID      string `gorm:"primaryKey" json:"id"`
	VideoID string `gorm:"index;not null" json:"video_id"`
	Video   *Video `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// Seconds into the video, always >= 0
	Timestamp float64 `json:"timestamp"`

	// HH:MM:SS form of Timestamp. The frontend parses this back into
	// seconds on click-to-seek so both must stay in sync
	TimestampFormatted string `json:"timestamp_formatted"`

	FramePath   string `json:"frame_path"`
	Transcript  string `json:"transcript"`
	Description string `json:"description"`
	OCRText     string `json:"ocr_text"`

	DetectedObjects ObjectCounts `json:"detected_objects"`

	// Concatenation of description, transcript and OCR text. Crude
	// search surrogate, not a real embedding
	EmbeddingText string `json:"embedding_text"`

	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}
