// Package model defines database models
package model

import "time"

// Video states. A video starts out as processing and only becomes
// ready once its segments have been written
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusFailed     = "failed"
)

type Video struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Filename string `json:"filename"`

	// Key of the raw video object in the bucket. The public URL is
	// built on the fly when a video is served
	StoragePath   string `json:"storage_path"`
	ThumbnailPath string `json:"thumbnail_path"`

	// Seconds. Overwritten by the analyzer with max segment
	// timestamp + 30 once analysis finishes
	Duration float64 `json:"duration"`

	Status    string    `gorm:"default:processing;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
