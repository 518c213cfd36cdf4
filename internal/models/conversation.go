package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is one chat thread. Messages are ordered by creation time;
// their text forms the history handed to the orchestrator.
type Conversation struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Title     string         `json:"title"`
	Messages  []Message      `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

type Message struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	ConversationID uint           `gorm:"not null;index" json:"conversation_id"`
	Role           string         `gorm:"not null" json:"role"` // "user", "assistant"
	Content        string         `gorm:"type:text;not null" json:"content"`
	Model          string         `json:"model,omitempty"`
	HelperCount    int            `gorm:"default:0" json:"helper_count,omitempty"`
}
