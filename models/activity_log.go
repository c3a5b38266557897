package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is a write-only audit trail. Business logic never reads it back.
type ActivityLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Actor      string         `gorm:"size:150" json:"actor"`
	Action     string         `gorm:"size:100;index" json:"action"`
	EntityType string         `gorm:"column:entity_type;size:50" json:"entity_type"`
	EntityID   uint           `gorm:"column:entity_id;index" json:"entity_id"`
	Details    datatypes.JSON `json:"details,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
