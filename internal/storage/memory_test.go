package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeynet-in/honeypot-backend/internal/models"
)

func TestMemoryStoreHistoryOrdering(t *testing.T) {
	store := NewMemoryStore()

	turns := []struct{ role, content string }{
		{models.RoleUser, "hi"},
		{models.RoleAssistant, "hello"},
		{models.RoleUser, "you won a prize"},
	}
	for _, turn := range turns {
		_, err := store.SaveTurn("SESS-1", turn.role, turn.content)
		require.NoError(t, err)
	}

	history, err := store.GetHistory("SESS-1")
	require.NoError(t, err)
	require.Len(t, history, 3)

	for i, turn := range turns {
		assert.Equal(t, turn.role, history[i].Role)
		assert.Equal(t, turn.content, history[i].Content)
	}
	// Timestamps are strictly increasing so ordering by timestamp
	// reproduces insertion order.
	assert.True(t, history[0].Timestamp.Before(history[1].Timestamp))
	assert.True(t, history[1].Timestamp.Before(history[2].Timestamp))

	count, err := store.CountTurns("SESS-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.SaveTurn("SESS-A", models.RoleUser, "a")
	require.NoError(t, err)

	history, err := store.GetHistory("SESS-B")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStoreRejectsEmptySessionID(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.SaveTurn("", models.RoleUser, "a")
	assert.Error(t, err)

	err = store.SaveIntelligence("", &models.InternalLogic{})
	assert.Error(t, err)
}

func TestMemoryStoreSnapshotsAreAppendOnly(t *testing.T) {
	store := NewMemoryStore()

	first := &models.InternalLogic{SessionID: "SESS-1", AgentNotes: "first"}
	second := &models.InternalLogic{SessionID: "SESS-1", AgentNotes: "second"}
	require.NoError(t, store.SaveIntelligence("SESS-1", first))
	require.NoError(t, store.SaveIntelligence("SESS-1", second))

	snapshots, err := store.GetIntelligence("SESS-1")
	require.NoError(t, err)
	require.Len(t, snapshots, 2, "snapshots accumulate, never replace")

	var logic models.InternalLogic
	require.NoError(t, json.Unmarshal([]byte(snapshots[0].Data), &logic))
	assert.Equal(t, "first", logic.AgentNotes)
}
