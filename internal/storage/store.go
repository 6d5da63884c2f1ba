package storage

import (
	"github.com/honeynet-in/honeypot-backend/internal/models"
)

// Store defines the interface for storage operations. Turns are immutable
// once written and snapshots are append-only; neither is ever updated or
// deleted.
type Store interface {
	// Conversation operations
	SaveTurn(sessionID, role, content string) (*models.Conversation, error)
	GetHistory(sessionID string) ([]*models.Conversation, error)
	CountTurns(sessionID string) (int64, error)

	// Intelligence snapshot operations
	SaveIntelligence(sessionID string, logic *models.InternalLogic) error
	GetIntelligence(sessionID string) ([]*models.Intelligence, error)
}
