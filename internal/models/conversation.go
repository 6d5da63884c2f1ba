package models

import "time"

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is one turn in a honeypot session. Rows are immutable once
// written; history is reconstructed by ordering on Timestamp ascending.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"column:session_id;index;size:255;not null"`
	Role      string    `json:"role" gorm:"size:50;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// TableName keeps the table name aligned with the persisted schema.
func (Conversation) TableName() string {
	return "conversations"
}
