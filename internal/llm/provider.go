package llm

import (
	"errors"
	"fmt"
	"strings"
)

// New creates a generator based on configuration. A missing API key or
// the "none" provider yields a NoopGenerator rather than an error.
func New(cfg Config) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOpenRouter
	}
	if provider == ProviderNone || cfg.APIKey == "" {
		return NoopGenerator{}, nil
	}
	cfg.Provider = provider

	var (
		gen Generator
		err error
	)
	switch provider {
	case ProviderOpenRouter, ProviderOpenAI:
		gen, err = NewOpenAIGenerator(cfg)
	case ProviderAnthropic:
		gen, err = NewAnthropicGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
	if err != nil {
		if errors.Is(err, ErrBackendUnavailable) {
			return NoopGenerator{}, nil
		}
		return nil, err
	}
	return gen, nil
}
