package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Candidate is one provider/model pair on the fallback ladder.
type Candidate struct {
	Provider Completer
	Model    string
}

// Client runs the fallback ladder: up to N attempts, each attempt walking
// the candidate models in order. Calls are issued sequentially; the client
// does not enforce any cross-call ordering for a session.
type Client struct {
	candidates []Candidate
	attempts   int
}

// NewClient creates a client over an ordered candidate list.
func NewClient(attempts int, candidates ...Candidate) (*Client, error) {
	if attempts <= 0 {
		attempts = 1
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("at least one candidate model required")
	}
	return &Client{candidates: candidates, attempts: attempts}, nil
}

// Chat sends the conversation to the first candidate that answers. Transient
// and unsupported-feature failures advance the ladder; anything else
// propagates immediately. The returned text has code fences stripped and the
// JSON envelope isolated where possible; final parsing is the caller's job.
func (c *Client) Chat(ctx context.Context, systemPrompt string, messages []Message) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		for _, cand := range c.candidates {
			raw, err := cand.Provider.Complete(ctx, cand.Model, systemPrompt, messages)
			if err == nil {
				return CleanResponse(raw), nil
			}

			var perr *Error
			if errors.As(err, &perr) && perr.Kind != KindPermanent {
				log.Printf("⚠️  %s/%s failed (%s), trying next model: %v",
					cand.Provider.Name(), cand.Model, perr.Kind, perr.Err)
				lastErr = err
				continue
			}

			return "", err
		}
	}

	return "", fmt.Errorf("%w after %d attempts over %d models: %v",
		ErrExhausted, c.attempts, len(c.candidates), lastErr)
}
