package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModels(t *testing.T) {
	models := parseModels("groq:llama-3.1-8b-instant, GEMINI:gemma-3-27b-it ,,broken-entry")

	require.Len(t, models, 2, "entries without a provider prefix are skipped")
	assert.Equal(t, ModelCandidate{Provider: "groq", Model: "llama-3.1-8b-instant"}, models[0])
	assert.Equal(t, ModelCandidate{Provider: "gemini", Model: "gemma-3-27b-it"}, models[1])

	assert.Empty(t, parseModels(""))
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Port:        "8080",
		APISecret:   "secret",
		GroqAPIKey:  "gsk-test",
		MaxAttempts: 3,
	}
	assert.NoError(t, valid.Validate())

	noSecret := *valid
	noSecret.APISecret = ""
	assert.Error(t, noSecret.Validate())

	noKeys := *valid
	noKeys.GroqAPIKey = ""
	noKeys.GeminiAPIKey = ""
	assert.Error(t, noKeys.Validate())

	badAttempts := *valid
	badAttempts.MaxAttempts = 0
	assert.Error(t, badAttempts.Validate())
}

func TestLoadFallsBackToDefaultLadder(t *testing.T) {
	t.Setenv("HONEYPOT_SECRET_KEY", "secret")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("MODEL_LADDER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultModels(), cfg.Models)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.True(t, cfg.CallbackEnabled)
}

func TestTwilioConfigured(t *testing.T) {
	cfg := &Config{
		TwilioAccountSID:   "AC123",
		TwilioAuthToken:    "token",
		TwilioWhatsAppFrom: "whatsapp:+14155238886",
		OperatorPhone:      "+919999999999",
	}
	assert.True(t, cfg.TwilioConfigured())

	cfg.OperatorPhone = ""
	assert.False(t, cfg.TwilioConfigured())
}
