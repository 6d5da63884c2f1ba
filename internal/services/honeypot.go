package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/honeynet-in/honeypot-backend/internal/intel"
	"github.com/honeynet-in/honeypot-backend/internal/jobs"
	"github.com/honeynet-in/honeypot-backend/internal/llm"
	"github.com/honeynet-in/honeypot-backend/internal/models"
	"github.com/honeynet-in/honeypot-backend/internal/storage"
)

// apologyReply is shown to the scammer whenever the backend hits an
// operational failure; the chat illusion must survive provider outages.
const apologyReply = "I'm having a little trouble hearing you. Could you say that again?"

// Chatter is the one contract the orchestrator needs from the provider
// adapter.
type Chatter interface {
	Chat(ctx context.Context, systemPrompt string, messages []llm.Message) (string, error)
}

// Notifier receives evaluation reports for background delivery.
type Notifier interface {
	Enqueue(report jobs.Report)
}

// ChatResult is the aggregated payload returned for one inbound message.
type ChatResult struct {
	Reply   string
	History []*models.Conversation
	Logic   models.InternalLogic
}

// HoneypotService orchestrates one conversation turn: persist, reload
// history, call the model, parse and repair, override, persist, notify.
type HoneypotService struct {
	store    storage.Store
	chatter  Chatter
	notifier Notifier

	// Requests for the same session are serialized so concurrent messages
	// cannot interleave reads and writes of one session's history. Entries
	// are dropped once the last holder releases, keeping the map bounded by
	// in-flight sessions rather than all sessions ever seen.
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewHoneypotService creates the orchestrator. The notifier may be nil when
// the evaluation callback is disabled.
func NewHoneypotService(store storage.Store, chatter Chatter, notifier Notifier) *HoneypotService {
	return &HoneypotService{
		store:    store,
		chatter:  chatter,
		notifier: notifier,
		locks:    make(map[string]*sessionLock),
	}
}

// ProcessMessage handles one inbound scammer message end to end and returns
// the reply, the full reconstructed history and the structured intelligence.
// Operational failures (provider exhausted, storage down) degrade the result
// instead of returning an error; only genuinely unexpected failures surface.
func (s *HoneypotService) ProcessMessage(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	// Persist the inbound turn before calling the model so a crash
	// mid-call does not lose the scammer's message.
	if _, err := s.store.SaveTurn(sessionID, models.RoleUser, message); err != nil {
		log.Printf("⚠️  Failed to persist inbound turn for %s: %v", sessionID, err)
	}

	// Server-side history is authoritative; client-supplied history is
	// never consulted.
	history, err := s.store.GetHistory(sessionID)
	if err != nil {
		log.Printf("⚠️  Failed to load history for %s: %v", sessionID, err)
		history = nil
	}

	messages, turn := buildMessages(history, sessionID, message)

	log.Printf("[%s] Turn %d: processing message", sessionID, turn)

	raw, err := s.chatter.Chat(ctx, systemInstruction, messages)
	if err != nil {
		log.Printf("❌ Provider call failed for %s: %v", sessionID, err)
		return s.degradedResult(sessionID, turn), nil
	}

	reply, logic := parseModelOutput(raw, sessionID, turn)

	// Completeness override: captured payment intelligence decides the
	// flags regardless of the model's own judgment.
	if logic.ExtractedIntelligence.HasPaymentIntelligence() {
		logic.ScamDetected = true
		logic.ReadyForFinalCallback = true
	}

	assistantTurn, err := s.store.SaveTurn(sessionID, models.RoleAssistant, reply)
	if err != nil {
		log.Printf("⚠️  Failed to persist assistant turn for %s: %v", sessionID, err)
		assistantTurn = &models.Conversation{
			SessionID: sessionID,
			Role:      models.RoleAssistant,
			Content:   reply,
			Timestamp: time.Now(),
		}
	}
	history = append(history, assistantTurn)

	if err := s.store.SaveIntelligence(sessionID, &logic); err != nil {
		log.Printf("⚠️  Failed to persist intelligence snapshot for %s: %v", sessionID, err)
	}

	if logic.ReadyForFinalCallback && s.notifier != nil {
		s.notifier.Enqueue(jobs.Report{
			SessionID:              sessionID,
			ScamDetected:           logic.ScamDetected,
			TotalMessagesExchanged: len(history),
			ExtractedIntelligence:  logic.ExtractedIntelligence,
			AgentNotes:             logic.AgentNotes,
		})
	}

	return &ChatResult{Reply: reply, History: history, Logic: logic}, nil
}

// History returns the ordered turn list for a session.
func (s *HoneypotService) History(sessionID string) ([]*models.Conversation, error) {
	return s.store.GetHistory(sessionID)
}

// AccumulatedIntelligence folds every persisted snapshot for the session
// into the monotonic merged view the dashboard renders.
func (s *HoneypotService) AccumulatedIntelligence(sessionID string) (models.InternalLogic, error) {
	snapshots, err := s.store.GetIntelligence(sessionID)
	if err != nil {
		return models.InternalLogic{}, fmt.Errorf("failed to load snapshots: %w", err)
	}

	merged := models.InternalLogic{SessionID: sessionID}
	for _, snapshot := range snapshots {
		var logic models.InternalLogic
		if err := json.Unmarshal([]byte(snapshot.Data), &logic); err != nil {
			log.Printf("⚠️  Skipping unreadable snapshot %d for %s: %v", snapshot.ID, sessionID, err)
			continue
		}
		merged = intel.MergeLogic(merged, logic)
	}
	return merged, nil
}

// buildMessages converts persisted history into provider messages, wrapping
// the live message with the session/turn preamble the prompt expects, and
// returns the turn number of the live message. When the inbound save did not
// land (history does not end with the live user turn) the wrapped message is
// appended so the provider always sees it.
func buildMessages(history []*models.Conversation, sessionID, current string) ([]llm.Message, int) {
	n := len(history)
	liveSaved := n > 0 && history[n-1].Role == models.RoleUser && history[n-1].Content == current

	turn := n
	if !liveSaved {
		turn = n + 1
	}
	wrapped := fmt.Sprintf(
		`[SessionID: %s] [Turn: %d] Incoming Message: %q. Please respond in json.`,
		sessionID, turn, current)

	messages := make([]llm.Message, 0, n+1)
	for i, t := range history {
		role := llm.RoleUser
		if t.Role == models.RoleAssistant {
			role = llm.RoleAssistant
		}
		content := t.Content
		if liveSaved && i == n-1 {
			content = wrapped
		}
		messages = append(messages, llm.Message{Role: role, Content: content})
	}
	if !liveSaved {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: wrapped})
	}
	return messages, turn
}

func (s *HoneypotService) degradedResult(sessionID string, turn int) *ChatResult {
	logic := defaultLogic(sessionID, turn)
	logic.AgentNotes = "System encountered an API error. Asking for repetition."
	return &ChatResult{
		Reply:   apologyReply,
		History: []*models.Conversation{},
		Logic:   logic,
	}
}

func (s *HoneypotService) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}
