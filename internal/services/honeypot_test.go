package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeynet-in/honeypot-backend/internal/jobs"
	"github.com/honeynet-in/honeypot-backend/internal/llm"
	"github.com/honeynet-in/honeypot-backend/internal/models"
	"github.com/honeynet-in/honeypot-backend/internal/storage"
)

// fakeChatter returns a scripted response and records the messages it saw.
type fakeChatter struct {
	response string
	err      error
	lastMsgs []llm.Message
	calls    int
}

func (f *fakeChatter) Chat(_ context.Context, _ string, messages []llm.Message) (string, error) {
	f.calls++
	f.lastMsgs = messages
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeNotifier struct {
	reports []jobs.Report
}

func (f *fakeNotifier) Enqueue(report jobs.Report) {
	f.reports = append(f.reports, report)
}

func TestProcessMessagePersistsTurnsAndSnapshot(t *testing.T) {
	store := storage.NewMemoryStore()
	chatter := &fakeChatter{
		response: `{"platform_reply":{"status":"success","reply":"oh ok... so i just send money na?"},` +
			`"internal_logic":{"scamDetected":true,"readyForFinalCallback":false,` +
			`"extractedIntelligence":{"suspiciousKeywords":["urgent"]},"agentNotes":"baiting"}}`,
	}
	svc := NewHoneypotService(store, chatter, nil)

	result, err := svc.ProcessMessage(context.Background(), "SESS-TEST", "your KYC expires today, act now")
	require.NoError(t, err)

	assert.Equal(t, "oh ok... so i just send money na?", result.Reply)
	assert.True(t, result.Logic.ScamDetected)
	assert.Equal(t, []string{"urgent"}, result.Logic.ExtractedIntelligence.SuspiciousKeywords)

	history, err := store.GetHistory("SESS-TEST")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, models.RoleAssistant, history[1].Role)

	snapshots, err := store.GetIntelligence("SESS-TEST")
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

func TestProcessMessageCompletenessOverride(t *testing.T) {
	store := storage.NewMemoryStore()
	// The model reports payment intelligence but denies the scam; the
	// deterministic safety net must win.
	chatter := &fakeChatter{
		response: `{"platform_reply":{"reply":"which account sir?"},` +
			`"internal_logic":{"scamDetected":false,"readyForFinalCallback":false,` +
			`"extractedIntelligence":{"bankAccounts":["123456789 HDFC"]}}}`,
	}
	notifier := &fakeNotifier{}
	svc := NewHoneypotService(store, chatter, notifier)

	result, err := svc.ProcessMessage(context.Background(), "SESS-OVR", "send to my account")
	require.NoError(t, err)

	assert.True(t, result.Logic.ScamDetected)
	assert.True(t, result.Logic.ReadyForFinalCallback)

	require.Len(t, notifier.reports, 1)
	report := notifier.reports[0]
	assert.Equal(t, "SESS-OVR", report.SessionID)
	assert.True(t, report.ScamDetected)
	assert.Equal(t, 2, report.TotalMessagesExchanged)
	assert.Equal(t, []string{"123456789 HDFC"}, report.ExtractedIntelligence.BankAccounts)
}

func TestProcessMessageRecoversEmbeddedJSON(t *testing.T) {
	store := storage.NewMemoryStore()
	chatter := &fakeChatter{response: `Sure! {"platform_reply":{"reply":"ok"}}`}
	svc := NewHoneypotService(store, chatter, nil)

	result, err := svc.ProcessMessage(context.Background(), "SESS-REC", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Reply)
}

func TestProcessMessageVerbatimFallbackOnUnparseableOutput(t *testing.T) {
	store := storage.NewMemoryStore()
	chatter := &fakeChatter{response: "sorry i can only talk in plain text"}
	svc := NewHoneypotService(store, chatter, nil)

	result, err := svc.ProcessMessage(context.Background(), "SESS-RAW", "hello")
	require.NoError(t, err)
	assert.Equal(t, "sorry i can only talk in plain text", result.Reply)
	assert.False(t, result.Logic.ScamDetected)
	assert.False(t, result.Logic.ReadyForFinalCallback)
}

func TestProcessMessageDegradesOnProviderExhaustion(t *testing.T) {
	store := storage.NewMemoryStore()
	chatter := &fakeChatter{err: fmt.Errorf("%w after 3 attempts", llm.ErrExhausted)}
	svc := NewHoneypotService(store, chatter, nil)

	result, err := svc.ProcessMessage(context.Background(), "SESS-DWN", "hello")
	require.NoError(t, err, "operational failures never fail the request")

	assert.Equal(t, apologyReply, result.Reply)
	assert.Empty(t, result.History)
	assert.False(t, result.Logic.ScamDetected)

	// The inbound turn was persisted before the provider call.
	history, err := store.GetHistory("SESS-DWN")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.RoleUser, history[0].Role)
}

func TestProcessMessageUsesAuthoritativeHistory(t *testing.T) {
	store := storage.NewMemoryStore()
	_, err := store.SaveTurn("SESS-HIST", models.RoleUser, "hi")
	require.NoError(t, err)
	_, err = store.SaveTurn("SESS-HIST", models.RoleAssistant, "hello")
	require.NoError(t, err)

	chatter := &fakeChatter{response: `{"reply":"and then?"}`}
	svc := NewHoneypotService(store, chatter, nil)

	_, err = svc.ProcessMessage(context.Background(), "SESS-HIST", "you won a prize")
	require.NoError(t, err)

	// Prior turns plus the just-inserted user turn reach the provider.
	require.Len(t, chatter.lastMsgs, 3)
	assert.Equal(t, llm.RoleUser, chatter.lastMsgs[0].Role)
	assert.Equal(t, "hi", chatter.lastMsgs[0].Content)
	assert.Equal(t, llm.RoleAssistant, chatter.lastMsgs[1].Role)
	assert.Contains(t, chatter.lastMsgs[2].Content, "you won a prize")
	assert.Contains(t, chatter.lastMsgs[2].Content, "SESS-HIST")
}

// failingTurnStore rejects saves for one role to simulate a write outage.
type failingTurnStore struct {
	storage.Store
	failRole string
}

func (f *failingTurnStore) SaveTurn(sessionID, role, content string) (*models.Conversation, error) {
	if role == f.failRole {
		return nil, fmt.Errorf("disk full")
	}
	return f.Store.SaveTurn(sessionID, role, content)
}

func TestProcessMessageSendsLiveMessageWhenSaveFails(t *testing.T) {
	mem := storage.NewMemoryStore()
	_, err := mem.SaveTurn("SESS-WOUT", models.RoleUser, "hi")
	require.NoError(t, err)
	_, err = mem.SaveTurn("SESS-WOUT", models.RoleAssistant, "hello")
	require.NoError(t, err)

	store := &failingTurnStore{Store: mem, failRole: models.RoleUser}
	chatter := &fakeChatter{response: `{"reply":"go on"}`}
	svc := NewHoneypotService(store, chatter, nil)

	result, err := svc.ProcessMessage(context.Background(), "SESS-WOUT", "you won a prize")
	require.NoError(t, err)
	assert.Equal(t, "go on", result.Reply)

	// The live message could not be persisted, so it is appended after the
	// stored turns instead of substituted into them.
	require.Len(t, chatter.lastMsgs, 3)
	assert.Equal(t, "hi", chatter.lastMsgs[0].Content)
	assert.Equal(t, "hello", chatter.lastMsgs[1].Content)
	assert.Equal(t, llm.RoleUser, chatter.lastMsgs[2].Role)
	assert.Contains(t, chatter.lastMsgs[2].Content, "you won a prize")
	assert.Contains(t, chatter.lastMsgs[2].Content, "[Turn: 3]")
}

func TestSessionLocksAreReleased(t *testing.T) {
	svc := NewHoneypotService(storage.NewMemoryStore(), &fakeChatter{response: `{"reply":"ok"}`}, nil)

	_, err := svc.ProcessMessage(context.Background(), "SESS-LOCK", "hello")
	require.NoError(t, err)
	_, err = svc.ProcessMessage(context.Background(), "SESS-LOCK2", "hello")
	require.NoError(t, err)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.locks, "idle sessions must not accumulate lock entries")
}

func TestAccumulatedIntelligenceMergesSnapshots(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewHoneypotService(store, &fakeChatter{}, nil)

	require.NoError(t, store.SaveIntelligence("SESS-ACC", &models.InternalLogic{
		ScamDetected:          true,
		ReadyForFinalCallback: false,
		ExtractedIntelligence: models.ExtractedIntelligence{UpiIDs: []string{"a@upi"}},
		AgentNotes:            "first",
	}))
	require.NoError(t, store.SaveIntelligence("SESS-ACC", &models.InternalLogic{
		ScamDetected:          false,
		ReadyForFinalCallback: true,
		ExtractedIntelligence: models.ExtractedIntelligence{UpiIDs: []string{"b@upi"}},
		AgentNotes:            "second",
	}))

	merged, err := svc.AccumulatedIntelligence("SESS-ACC")
	require.NoError(t, err)

	assert.True(t, merged.ScamDetected, "monotonic across snapshots")
	assert.True(t, merged.ReadyForFinalCallback)
	assert.Equal(t, "second", merged.AgentNotes)
	assert.Equal(t, []string{"a@upi", "b@upi"}, merged.ExtractedIntelligence.UpiIDs)
	assert.Equal(t, "SESS-ACC", merged.SessionID)
}

func TestParseModelOutputShapes(t *testing.T) {
	reply, logic := parseModelOutput(`{"reply":"top level"}`, "S", 1)
	assert.Equal(t, "top level", reply)
	assert.Equal(t, "S", logic.SessionID)

	reply, _ = parseModelOutput(`{"platform_reply":{"reply":"nested"}}`, "S", 1)
	assert.Equal(t, "nested", reply)

	reply, logic = parseModelOutput("plain text", "S", 4)
	assert.Equal(t, "plain text", reply)
	assert.Equal(t, 4, logic.ConversationTurn)
}
