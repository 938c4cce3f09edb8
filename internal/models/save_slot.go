package models

import (
	"time"
)

// SaveSlot is the key-value row holding one serialized GameState
type SaveSlot struct {
	Key           string    `json:"key" gorm:"primaryKey"`
	Data          string    `json:"data" gorm:"type:text;not null"`
	SchemaVersion int       `json:"schema_version" gorm:"default:1"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
