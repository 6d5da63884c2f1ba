package storage

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/honeynet-in/honeypot-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development.
type MemoryStore struct {
	conversations map[string][]*models.Conversation
	intelligence  map[string][]*models.Intelligence

	mu sync.RWMutex

	// Counters for ID generation
	turnCounter     uint
	snapshotCounter uint
}

// NewMemoryStore creates a new in-memory storage.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string][]*models.Conversation),
		intelligence:  make(map[string][]*models.Intelligence),
	}
}

func (m *MemoryStore) SaveTurn(sessionID, role, content string) (*models.Conversation, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.turnCounter++
	now := time.Now()

	// Keep timestamps strictly increasing per session so ordering by
	// timestamp reproduces insertion order even within one clock tick.
	turns := m.conversations[sessionID]
	if n := len(turns); n > 0 && !now.After(turns[n-1].Timestamp) {
		now = turns[n-1].Timestamp.Add(time.Microsecond)
	}

	turn := &models.Conversation{
		ID:        m.turnCounter,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Timestamp: now,
	}

	m.conversations[sessionID] = append(turns, turn)
	return turn, nil
}

func (m *MemoryStore) GetHistory(sessionID string) ([]*models.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	turns := m.conversations[sessionID]
	out := make([]*models.Conversation, len(turns))
	copy(out, turns)
	return out, nil
}

func (m *MemoryStore) CountTurns(sessionID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.conversations[sessionID])), nil
}

func (m *MemoryStore) SaveIntelligence(sessionID string, logic *models.InternalLogic) error {
	if sessionID == "" {
		return fmt.Errorf("session id required")
	}

	data, err := json.Marshal(logic)
	if err != nil {
		return fmt.Errorf("failed to marshal intelligence payload: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshotCounter++
	snapshot := &models.Intelligence{
		ID:        m.snapshotCounter,
		SessionID: sessionID,
		Data:      string(data),
		UpdatedAt: time.Now(),
	}

	m.intelligence[sessionID] = append(m.intelligence[sessionID], snapshot)
	return nil
}

func (m *MemoryStore) GetIntelligence(sessionID string) ([]*models.Intelligence, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshots := m.intelligence[sessionID]
	out := make([]*models.Intelligence, len(snapshots))
	copy(out, snapshots)
	return out, nil
}
