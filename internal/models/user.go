package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an operator account for the CRUD service's admin surface.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"not null;unique"`
	Name      string         `json:"name"`
	Password  string         `json:"-" gorm:"not null"`
	Role      string         `json:"role" gorm:"default:admin"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
