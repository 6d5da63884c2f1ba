package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/honeynet-in/honeypot-backend/internal/models"
)

// The model's reply shape drifts between runs: sometimes a bare "reply",
// sometimes the nested "platform_reply.reply". Both are normalized here and
// downstream code only ever sees the canonical reply + logic pair.
type modelEnvelope struct {
	Status        string                `json:"status"`
	Reply         string                `json:"reply"`
	PlatformReply *platformReply        `json:"platform_reply"`
	InternalLogic *models.InternalLogic `json:"internal_logic"`
}

type platformReply struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// Best-effort recovery for replies with prose wrapped around the JSON
// envelope. This is a resilience strategy, not a parser; keep the pattern
// surface small.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// parseModelOutput turns raw model text into a reply string plus internal
// logic. It never fails: non-JSON output falls back to the raw text verbatim
// as the reply with default-safe structured fields.
func parseModelOutput(raw, sessionID string, turn int) (string, models.InternalLogic) {
	logic := defaultLogic(sessionID, turn)

	var envelope modelEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		recovered := jsonObjectPattern.FindString(raw)
		if recovered == "" || json.Unmarshal([]byte(recovered), &envelope) != nil {
			// Unparseable output: use the text verbatim as the reply.
			return strings.TrimSpace(raw), logic
		}
	}

	reply := envelope.Reply
	if reply == "" && envelope.PlatformReply != nil {
		reply = envelope.PlatformReply.Reply
	}
	if reply == "" {
		reply = strings.TrimSpace(raw)
	}

	if envelope.InternalLogic != nil {
		logic = *envelope.InternalLogic
		logic.SessionID = sessionID
		if logic.ConversationTurn == 0 {
			logic.ConversationTurn = turn
		}
	}

	return reply, logic
}

func defaultLogic(sessionID string, turn int) models.InternalLogic {
	return models.InternalLogic{
		ScamDetected:          false,
		SessionID:             sessionID,
		ConversationTurn:      turn,
		ReadyForFinalCallback: false,
		ExtractedIntelligence: models.ExtractedIntelligence{},
		AgentNotes:            "",
	}
}
