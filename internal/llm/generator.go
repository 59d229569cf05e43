// Package llm provides the generative text backends used for personality
// rewriting. A Generator takes a system and a user instruction and returns
// generated text or fails.
package llm

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBackendUnavailable is returned when no backend is configured.
	ErrBackendUnavailable = errors.New("generative backend unavailable")

	// ErrBackendFailure wraps transport, quota and malformed-response errors.
	ErrBackendFailure = errors.New("generative backend failure")
)

// Default configuration values.
const (
	DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel   = "mistralai/mistral-7b-instruct"
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultAnthropicBaseURL  = "https://api.anthropic.com"
	DefaultAnthropicModel    = "claude-3-5-haiku-latest"
	DefaultTimeout           = 30 * time.Second
)

// Rate limiter defaults: 50 requests per minute.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// Provider names accepted by New.
const (
	ProviderNone       = "none"
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
)

// Generator produces text from a system and a user instruction.
type Generator interface {
	// Generate returns the generated text. Errors wrap ErrBackendUnavailable
	// or ErrBackendFailure.
	Generate(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error)

	// Available returns true if the backend is configured and ready.
	Available() bool

	// Name identifies the backend model, e.g. "mistralai/mistral-7b-instruct".
	Name() string
}

// Config holds backend configuration.
type Config struct {
	Provider  string        `json:"provider"`
	APIKey    string        `json:"-"` // Never serialize API keys
	BaseURL   string        `json:"base_url,omitempty"`
	Model     string        `json:"model,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"`
	RateLimit float64       `json:"rate_limit,omitempty"` // Requests per second
	Burst     int           `json:"burst,omitempty"`
}

// NoopGenerator is the Generator used when no backend is configured.
type NoopGenerator struct{}

// Generate always returns ErrBackendUnavailable.
func (NoopGenerator) Generate(context.Context, string, string, int, float64) (string, error) {
	return "", ErrBackendUnavailable
}

// Available returns false for NoopGenerator.
func (NoopGenerator) Available() bool { return false }

// Name returns "none".
func (NoopGenerator) Name() string { return ProviderNone }

var _ Generator = NoopGenerator{}
