package client

import (
	"time"

	"github.com/honeynet-in/honeypot-backend/internal/intel"
	"github.com/honeynet-in/honeypot-backend/pkg/intelligence"
)

// ChatMessage is one rendered transcript entry.
type ChatMessage struct {
	Sender    string    `json:"sender"` // "user" or "agent"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionState is the accumulated client-side view of one honeypot session:
// the transcript plus the merged intelligence across every turn seen so far.
type SessionState struct {
	SessionID             string                             `json:"sessionId"`
	ScamDetected          bool                               `json:"scamDetected"`
	ReadyForFinalCallback bool                               `json:"readyForFinalCallback"`
	AgentNotes            string                             `json:"agentNotes"`
	Intelligence          intelligence.ExtractedIntelligence `json:"extractedIntelligence"`
	Messages              []ChatMessage                      `json:"messages"`
}

// ApplyLogic merges an incoming partial internal-logic fragment into the
// state. Pure function of its inputs: entities never disappear, scamDetected
// is a monotonic OR, readyForFinalCallback and agentNotes reflect the latest
// server decision, and the session id is never altered by a merge.
func ApplyLogic(prev SessionState, incoming intelligence.InternalLogic) SessionState {
	merged := intel.MergeLogic(intelligence.InternalLogic{
		SessionID:             prev.SessionID,
		ScamDetected:          prev.ScamDetected,
		ReadyForFinalCallback: prev.ReadyForFinalCallback,
		AgentNotes:            prev.AgentNotes,
		ExtractedIntelligence: prev.Intelligence,
	}, incoming)

	next := prev
	next.ScamDetected = merged.ScamDetected
	next.ReadyForFinalCallback = merged.ReadyForFinalCallback
	next.AgentNotes = merged.AgentNotes
	next.Intelligence = merged.ExtractedIntelligence
	return next
}
