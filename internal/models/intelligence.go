package models

import (
	"time"

	"github.com/honeynet-in/honeypot-backend/pkg/intelligence"
)

// The wire value types live in pkg/intelligence so code importing the client
// package can name them; the aliases keep the persistence layer reading
// naturally.
type (
	CryptoWallet          = intelligence.CryptoWallet
	ExtractedIntelligence = intelligence.ExtractedIntelligence
	InternalLogic         = intelligence.InternalLogic
)

// Intelligence is one snapshot row. Append-only; the storage layer does not
// distinguish the latest row, reconciliation across snapshots is a merge
// concern.
type Intelligence struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"column:session_id;index;size:255;not null"`
	Data      string    `json:"data" gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoCreateTime"`
}

// TableName keeps the table name aligned with the persisted schema.
func (Intelligence) TableName() string {
	return "intelligence"
}
