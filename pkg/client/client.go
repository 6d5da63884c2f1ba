// Package client is a Go client for the honeypot backend: it relays
// operator messages, accumulates extracted intelligence across turns, and
// restores sessions between runs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/honeynet-in/honeypot-backend/internal/models"
	"github.com/honeynet-in/honeypot-backend/pkg/intelligence"
)

// ErrUnauthorized is returned when the backend rejects the shared secret.
var ErrUnauthorized = errors.New("unauthorized: invalid or missing API key")

// Client talks to one honeypot backend on behalf of one session.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	store   SessionStore

	mu    sync.Mutex
	state SessionState
}

// New bootstraps a client: a previously stored session identifier is
// restored and its transcript replayed; otherwise a fresh identifier is
// minted and persisted. A failed replay leaves the transcript empty rather
// than failing the bootstrap, so partially-written sessions are tolerated.
func New(baseURL, apiKey string, store SessionStore) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 60 * time.Second},
		store:   store,
	}

	sessionID, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	restored := sessionID != ""
	if !restored {
		sessionID = newSessionID()
	}
	c.state = SessionState{SessionID: sessionID}

	if err := store.Save(sessionID); err != nil {
		return nil, fmt.Errorf("failed to persist session id: %w", err)
	}

	if restored {
		if history, err := c.History(context.Background()); err == nil {
			c.state.Messages = history
		}
	}

	return c, nil
}

// newSessionID mints "SESS-" plus a random 9-character suffix.
func newSessionID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "SESS-" + suffix[:9]
}

// State returns a copy of the accumulated session state.
func (c *Client) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset starts a new chat: local persistence and the transcript are cleared
// and a fresh identifier is minted. Server-side rows for the old session are
// left untouched.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		return err
	}

	sessionID := newSessionID()
	if err := c.store.Save(sessionID); err != nil {
		return err
	}

	c.state = SessionState{SessionID: sessionID}
	return nil
}

type chatResponse struct {
	Status              string `json:"status"`
	Reply               string `json:"reply"`
	ConversationHistory []struct {
		Sender    string `json:"sender"`
		Text      string `json:"text"`
		Timestamp int64  `json:"timestamp"`
	} `json:"conversationHistory"`
	InternalLogic *intelligence.InternalLogic `json:"internal_logic"`
}

// Send relays one scammer-style message and folds the response into the
// session state. Returns the agent's reply text.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	c.mu.Lock()
	sessionID := c.state.SessionID
	c.mu.Unlock()

	payload, err := json.Marshal(map[string]string{
		"message":   message,
		"sessionId": sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach honeypot backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(body.ConversationHistory) > 0 {
		messages := make([]ChatMessage, 0, len(body.ConversationHistory))
		for _, m := range body.ConversationHistory {
			sender := "agent"
			if m.Sender == "scammer" {
				sender = "user"
			}
			messages = append(messages, ChatMessage{
				Sender:    sender,
				Text:      m.Text,
				Timestamp: time.UnixMilli(m.Timestamp),
			})
		}
		c.state.Messages = messages
	} else {
		now := time.Now()
		c.state.Messages = append(c.state.Messages,
			ChatMessage{Sender: "user", Text: message, Timestamp: now},
			ChatMessage{Sender: "agent", Text: body.Reply, Timestamp: now},
		)
	}

	if body.InternalLogic != nil {
		c.state = ApplyLogic(c.state, *body.InternalLogic)
	}

	return body.Reply, nil
}

type historyEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// History fetches the server-side transcript for the active session. A
// session with a trailing unanswered user turn replays as-is.
func (c *Client) History(ctx context.Context) ([]ChatMessage, error) {
	c.mu.Lock()
	sessionID := c.state.SessionID
	c.mu.Unlock()

	endpoint := c.baseURL + "/api/history?sessionId=" + url.QueryEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	var entries []historyEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	messages := make([]ChatMessage, 0, len(entries))
	for _, e := range entries {
		sender := "agent"
		if e.Role == models.RoleUser {
			sender = "user"
		}
		messages = append(messages, ChatMessage{
			Sender:    sender,
			Text:      e.Content,
			Timestamp: e.Timestamp,
		})
	}
	return messages, nil
}
