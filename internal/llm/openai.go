package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint,
// OpenRouter included, through langchaingo.
type OpenAIGenerator struct {
	model  string
	client llms.Model
	guard  guard
}

// NewOpenAIGenerator creates a generator for an OpenAI-compatible endpoint.
// Empty BaseURL and Model fall back to the OpenRouter defaults.
func NewOpenAIGenerator(cfg Config) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key required", ErrBackendUnavailable)
	}

	baseURL := cfg.BaseURL
	model := cfg.Model
	switch cfg.Provider {
	case ProviderOpenAI:
		if baseURL == "" {
			baseURL = DefaultOpenAIBaseURL
		}
		if model == "" {
			model = DefaultOpenAIModel
		}
	default:
		if baseURL == "" {
			baseURL = DefaultOpenRouterBaseURL
		}
		if model == "" {
			model = DefaultOpenRouterModel
		}
	}

	client, err := openai.New(
		openai.WithBaseURL(strings.TrimSuffix(baseURL, "/")),
		openai.WithModel(model),
		openai.WithToken(cfg.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}

	return &OpenAIGenerator{
		model:  model,
		client: client,
		guard:  newGuard(cfg),
	}, nil
}

// Generate sends one chat completion with a system and a human message.
func (o *OpenAIGenerator) Generate(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	return o.guard.do(ctx, func(ctx context.Context) (string, error) {
		messages := []llms.MessageContent{
			{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextContent{Text: system}}},
			{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextContent{Text: user}}},
		}

		resp, err := o.client.GenerateContent(ctx, messages,
			llms.WithTemperature(temperature),
			llms.WithMaxTokens(maxTokens),
		)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrBackendFailure, o.model, err)
		}
		if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
			return "", fmt.Errorf("%w: %s: empty response", ErrBackendFailure, o.model)
		}

		return resp.Choices[0].Content, nil
	})
}

// Available returns true once the client is constructed.
func (o *OpenAIGenerator) Available() bool { return o.client != nil }

// Name returns the model identifier.
func (o *OpenAIGenerator) Name() string { return o.model }

var _ Generator = (*OpenAIGenerator)(nil)
