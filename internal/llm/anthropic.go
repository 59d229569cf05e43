package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// AnthropicGenerator calls the Anthropic messages API directly.
type AnthropicGenerator struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	guard      guard
}

// NewAnthropicGenerator creates a generator for the Anthropic messages API.
func NewAnthropicGenerator(cfg Config) (*AnthropicGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic api key required", ErrBackendUnavailable)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}

	g := newGuard(cfg)
	return &AnthropicGenerator{
		model:   model,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: g.timeout,
		},
		guard: g,
	}, nil
}

// anthropicRequest represents the request format for the messages API.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends a single messages request. Failures are not retried.
func (a *AnthropicGenerator) Generate(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	return a.guard.do(ctx, func(ctx context.Context) (string, error) {
		return a.doRequest(ctx, anthropicRequest{
			Model:       a.model,
			MaxTokens:   maxTokens,
			System:      system,
			Temperature: temperature,
			Messages: []anthropicMessage{
				{Role: "user", Content: user},
			},
		})
	})
}

// doRequest performs the HTTP request to the messages API.
func (a *AnthropicGenerator) doRequest(ctx context.Context, req anthropicRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", a.apiKey)
	httpReq.Header.Set("Anthropic-Version", "2023-06-01")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", ErrBackendFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrBackendFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("%w: api error (%d): %s", ErrBackendFailure, resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("%w: api error (%d): %s", ErrBackendFailure, resp.StatusCode, string(body))
	}

	var msgResp anthropicResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("%w: parsing response: %v", ErrBackendFailure, err)
	}

	var text strings.Builder
	for _, c := range msgResp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", fmt.Errorf("%w: empty response from api", ErrBackendFailure)
	}

	return text.String(), nil
}

// Available returns true once an API key is set.
func (a *AnthropicGenerator) Available() bool { return a.apiKey != "" }

// Name returns the model identifier.
func (a *AnthropicGenerator) Name() string { return a.model }

var _ Generator = (*AnthropicGenerator)(nil)
