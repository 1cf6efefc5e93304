package model

import "time"

// QAHistory records one question/answer exchange for a video. It is
// write-only history, nothing reads it back
type QAHistory struct {
	ID      string `gorm:"primaryKey" json:"id"`
	VideoID string `gorm:"index;not null" json:"video_id"`
	Video   *Video `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Question           string      `gorm:"not null" json:"question"`
	Answer             string      `json:"answer"`
	RelevantTimestamps StringSlice `json:"relevant_timestamps"`

	CreatedAt time.Time `json:"created_at"`
}

func (QAHistory) TableName() string {
	return "video_qa_history"
}
