package models

import "time"

// Analysis is the schema-shaped result of running one SOP against one grid
// of screenshots from one stream, written by the core after a successful
// VisionAdapter call.
type Analysis struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	StreamID      uint      `json:"rtsp_id" gorm:"not null;index"`
	SOPID         uint      `json:"sop_id" gorm:"not null;index"`
	TimestampUTC  time.Time `json:"timestamp_utc"`
	Output        string    `json:"output" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}
