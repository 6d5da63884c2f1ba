package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Groq exposes an OpenAI-compatible API with native JSON mode.
const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider drives Groq-hosted models through the OpenAI-compatible
// chat-completions endpoint.
type GroqProvider struct {
	client *openai.Client
}

// NewGroqProvider creates a Groq provider instance.
func NewGroqProvider(apiKey string) (*GroqProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Groq API key")
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	return &GroqProvider{client: openai.NewClientWithConfig(cfg)}, nil
}

func (g *GroqProvider) Name() string {
	return "groq"
}

// Complete sends the system prompt on the dedicated system channel; every
// Groq model on the ladder supports it, along with JSON response mode.
func (g *GroqProvider) Complete(ctx context.Context, model, systemPrompt string, messages []Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: 0.7,
		MaxTokens:   1024,
		TopP:        1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", g.classify(model, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &Error{
			Kind:     KindTransient,
			Provider: g.Name(),
			Model:    model,
			Err:      fmt.Errorf("empty completion"),
		}
	}

	return resp.Choices[0].Message.Content, nil
}

func (g *GroqProvider) classify(model string, err error) error {
	kind := KindPermanent

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		kind = classifyStatus(apiErr.HTTPStatusCode, apiErr.Message)
	case errors.As(err, &reqErr):
		kind = classifyStatus(reqErr.HTTPStatusCode, reqErr.Error())
	}

	return &Error{Kind: kind, Provider: g.Name(), Model: model, Err: err}
}
