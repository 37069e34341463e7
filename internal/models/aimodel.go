package models

import "time"

// AIModel names a vision-capable model and the provider that serves it, so an
// SOP can be pointed at a specific backend without hardcoding it in the prompt.
type AIModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Provider  string    `json:"provider" gorm:"not null"`
	ModelName string    `json:"model_name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
