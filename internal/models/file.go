package models

import (
	"time"

	"gorm.io/gorm"
)

// FileUpload records one object stored in the upload bucket.
type FileUpload struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	User           User           `gorm:"foreignKey:UserID" json:"-"`
	ConversationID *uint          `gorm:"index" json:"conversation_id,omitempty"`
	ObjectKey      string         `gorm:"uniqueIndex;not null" json:"object_key"`
	FileName       string         `gorm:"not null" json:"file_name"`
	ContentType    string         `json:"content_type"`
	SizeBytes      int64          `json:"size_bytes"`
}
