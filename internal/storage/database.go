package storage

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/honeynet-in/honeypot-backend/internal/models"
)

// DatabaseStore persists turns and intelligence snapshots in PostgreSQL.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) SaveTurn(sessionID, role, content string) (*models.Conversation, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}

	turn := &models.Conversation{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	if err := d.db.Create(turn).Error; err != nil {
		return nil, fmt.Errorf("failed to save turn: %w", err)
	}
	return turn, nil
}

func (d *DatabaseStore) GetHistory(sessionID string) ([]*models.Conversation, error) {
	var turns []*models.Conversation
	err := d.db.
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&turns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return turns, nil
}

func (d *DatabaseStore) CountTurns(sessionID string) (int64, error) {
	var count int64
	err := d.db.Model(&models.Conversation{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}
	return count, nil
}

func (d *DatabaseStore) SaveIntelligence(sessionID string, logic *models.InternalLogic) error {
	if sessionID == "" {
		return fmt.Errorf("session id required")
	}

	data, err := json.Marshal(logic)
	if err != nil {
		return fmt.Errorf("failed to marshal intelligence payload: %w", err)
	}

	snapshot := &models.Intelligence{
		SessionID: sessionID,
		Data:      string(data),
	}
	if err := d.db.Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to save intelligence snapshot: %w", err)
	}
	return nil
}

func (d *DatabaseStore) GetIntelligence(sessionID string) ([]*models.Intelligence, error) {
	var snapshots []*models.Intelligence
	err := d.db.
		Where("session_id = ?", sessionID).
		Order("updated_at ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load intelligence snapshots: %w", err)
	}
	return snapshots, nil
}
