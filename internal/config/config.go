// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ModelCandidate names one provider/model pair in the fallback ladder.
type ModelCandidate struct {
	Provider string // "groq" or "gemini"
	Model    string
}

// Config holds all application configuration. It is built once in main
// and passed by reference into the services that need it.
type Config struct {
	Port      string
	APISecret string

	// Provider credentials and the model ladder tried in order.
	GroqAPIKey   string
	GeminiAPIKey string
	Models       []ModelCandidate
	MaxAttempts  int

	// Storage
	UseMemoryStore bool

	// Evaluation callback
	CallbackURL     string
	CallbackEnabled bool

	// Optional operator alerting via WhatsApp
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	OperatorPhone      string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		APISecret:          getEnv("HONEYPOT_SECRET_KEY", ""),
		GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		Models:             parseModels(getEnv("MODEL_LADDER", "")),
		MaxAttempts:        getEnvInt("PROVIDER_MAX_ATTEMPTS", 3),
		UseMemoryStore:     getEnvBool("USE_MEMORY_STORE", false),
		CallbackURL:        getEnv("EVALUATION_CALLBACK_URL", ""),
		CallbackEnabled:    getEnvBool("EVALUATION_CALLBACK_ENABLED", true),
		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_FROM", ""),
		OperatorPhone:      getEnv("OPERATOR_PHONE", ""),
	}

	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DefaultModels is the ladder used when MODEL_LADDER is not set: the fast
// Groq model first, then the bigger Groq model, then the Gemini fallbacks.
func DefaultModels() []ModelCandidate {
	return []ModelCandidate{
		{Provider: "groq", Model: "llama-3.1-8b-instant"},
		{Provider: "groq", Model: "llama-3.3-70b-versatile"},
		{Provider: "gemini", Model: "gemma-3-27b-it"},
		{Provider: "gemini", Model: "gemini-2.0-flash"},
	}
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.APISecret == "" {
		return fmt.Errorf("HONEYPOT_SECRET_KEY must be set")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("PROVIDER_MAX_ATTEMPTS must be > 0")
	}
	if c.GroqAPIKey == "" && c.GeminiAPIKey == "" {
		return fmt.Errorf("at least one of GROQ_API_KEY or GEMINI_API_KEY must be set")
	}
	return nil
}

// TwilioConfigured reports whether operator alerting can be enabled.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		c.TwilioWhatsAppFrom != "" && c.OperatorPhone != ""
}

// parseModels parses "groq:llama-3.1-8b-instant,gemini:gemma-3-27b-it".
func parseModels(ladder string) []ModelCandidate {
	var out []ModelCandidate
	for _, entry := range strings.Split(ladder, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		provider, model, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		out = append(out, ModelCandidate{
			Provider: strings.ToLower(strings.TrimSpace(provider)),
			Model:    strings.TrimSpace(model),
		})
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
