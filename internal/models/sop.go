package models

import (
	"time"

	"gridwatch/internal/schema"
	"gorm.io/gorm"
)

// SOP (Standard Operating Procedure) pairs a vision prompt with the structured
// schema the core expects the model to fill in, at a configured analysis
// frequency.
type SOP struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Name             string         `json:"name" gorm:"not null"`
	Description      string         `json:"description"`
	ModelID          *uint          `json:"model_id"`
	Model            *AIModel       `json:"model,omitempty"`
	Prompt           string         `json:"prompt"`
	FrequencySeconds int            `json:"frequency" gorm:"default:10"`
	StructuredSchema string         `json:"structured_output" gorm:"type:text"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// DecodeSchema parses the stored structured_output column into the recursive
// schema descriptor used by the VisionAdapter.
func (s SOP) DecodeSchema() (*schema.Schema, error) {
	if s.StructuredSchema == "" {
		return nil, nil
	}
	return schema.Parse([]byte(s.StructuredSchema))
}
