package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider drives Google-hosted models (Gemini and Gemma families)
// through the GenAI API.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a Gemini provider instance.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Gemini API key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

// Gemma models reject the dedicated system-instruction channel, so the
// prompt is folded into a leading user turn with a canned acknowledgement.
func supportsSystemInstruction(model string) bool {
	return !strings.HasPrefix(model, "gemma")
}

func geminiRole(r Role) genai.Role {
	if r == RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}

func (g *GeminiProvider) Complete(ctx context.Context, model, systemPrompt string, messages []Message) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.7),
		MaxOutputTokens:  1024,
	}

	var contents []*genai.Content
	if supportsSystemInstruction(model) {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	} else {
		contents = append(contents,
			genai.NewContentFromText("System: "+systemPrompt, genai.RoleUser),
			genai.NewContentFromText("Understood. I will follow these instructions.", genai.RoleModel),
		)
	}

	for _, m := range messages {
		contents = append(contents, genai.NewContentFromText(m.Content, geminiRole(m.Role)))
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", g.classify(model, err)
	}

	text := resp.Text()
	if text == "" {
		return "", &Error{
			Kind:     KindTransient,
			Provider: g.Name(),
			Model:    model,
			Err:      fmt.Errorf("empty completion"),
		}
	}

	return text, nil
}

func (g *GeminiProvider) classify(model string, err error) error {
	kind := KindPermanent

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		kind = classifyStatus(apiErr.Code, apiErr.Message)
	}

	return &Error{Kind: kind, Provider: g.Name(), Model: model, Err: err}
}
