package models

import (
	"time"

	"gorm.io/gorm"
)

// AssistantCapsule is one assistant's persisted configuration: identity,
// traits, and prompt text, with a checksum verified on read. Traits and the
// checksum input use canonical JSON so the checksum is stable across writes.
type AssistantCapsule struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	UserID          uint           `gorm:"not null;uniqueIndex:idx_user_instance" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"-"`
	InstanceName    string         `gorm:"not null;uniqueIndex:idx_user_instance" json:"instance_name"`
	PersonalityType string         `gorm:"default:'UNKNOWN'" json:"personality_type"`
	Traits          string         `gorm:"type:jsonb;default:'{}'" json:"traits"`
	PromptText      string         `gorm:"type:text" json:"prompt_text"`
	Checksum        string         `gorm:"not null" json:"checksum"`
}
