package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanResponseStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"platform_reply\":{\"reply\":\"hi\"}}\n```"
	assert.Equal(t, `{"platform_reply":{"reply":"hi"}}`, CleanResponse(raw))
}

func TestCleanResponsePrefersEnvelopeObject(t *testing.T) {
	raw := `{"note":"irrelevant"} and then {"internal_logic":{"scamDetected":true}}`
	assert.Equal(t, `{"internal_logic":{"scamDetected":true}}`, CleanResponse(raw))
}

func TestCleanResponseExtractsEmbeddedObject(t *testing.T) {
	raw := `Sure! {"platform_reply":{"reply":"ok"}}`
	assert.Equal(t, `{"platform_reply":{"reply":"ok"}}`, CleanResponse(raw))
}

func TestCleanResponseIgnoresBracesInsideStrings(t *testing.T) {
	raw := `{"platform_reply":{"reply":"use {curly} braces"}}`
	assert.Equal(t, raw, CleanResponse(raw))
}

func TestCleanResponsePassesThroughPlainText(t *testing.T) {
	raw := "sorry, I can only answer in plain text"
	assert.Equal(t, raw, CleanResponse(raw))
}
