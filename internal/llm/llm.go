// Package llm normalizes heterogeneous chat-completion providers behind one
// contract and runs the model fallback ladder across them.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn handed to a provider. System content is never passed
// as a message role; it travels separately and each provider decides how to
// deliver it.
type Message struct {
	Role    Role
	Content string
}

// ErrorKind classifies a provider failure for the fallback ladder.
type ErrorKind int

const (
	// KindTransient covers rate limits, overload and quota errors; the
	// ladder advances to the next model/attempt.
	KindTransient ErrorKind = iota
	// KindUnsupported covers 400-class "not supported" rejections; the
	// ladder advances to the next model.
	KindUnsupported
	// KindPermanent covers everything else; it propagates immediately.
	KindPermanent
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindUnsupported:
		return "unsupported"
	default:
		return "permanent"
	}
}

// Error wraps a provider SDK error with its classification.
type Error struct {
	Kind     ErrorKind
	Provider string
	Model    string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s/%s: %s error: %v", e.Provider, e.Model, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrExhausted is returned after every candidate model has failed with an
// advanceable error on every attempt.
var ErrExhausted = errors.New("all provider models exhausted")

// Completer is one provider's chat-completion call for a given model.
type Completer interface {
	Name() string
	Complete(ctx context.Context, model, systemPrompt string, messages []Message) (string, error)
}

// classifyStatus maps an HTTP-ish status code plus error message onto an
// ErrorKind.
func classifyStatus(status int, message string) ErrorKind {
	msg := strings.ToLower(message)
	switch {
	case status == http.StatusTooManyRequests || status >= 500:
		return KindTransient
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "over capacity") ||
		strings.Contains(msg, "quota"):
		return KindTransient
	case status == http.StatusBadRequest && strings.Contains(msg, "not supported"):
		return KindUnsupported
	default:
		return KindPermanent
	}
}
