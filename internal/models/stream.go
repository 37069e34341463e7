package models

import (
	"time"

	"gorm.io/gorm"
)

// Stream is a registered RTSP source the pipeline ingests and analyzes.
type Stream struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	RTSPUrl     string         `json:"rtsp_url" gorm:"not null;unique"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	Status      string         `json:"status" gorm:"default:active"`
	LastChecked *time.Time     `json:"last_checked,omitempty"`
	IsAccessible bool          `json:"is_accessible" gorm:"default:false"`
	SOPs        []SOP          `json:"sops,omitempty" gorm:"many2many:stream_sops;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
