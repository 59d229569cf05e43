// Package config provides configuration loading for personad.
//
// Configuration is layered: built-in defaults, an optional YAML file, the
// legacy environment variables of earlier deployments, then PERSONAD_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/personad/internal/llm"
	"github.com/fyrsmithlabs/personad/internal/secrets"
	"github.com/fyrsmithlabs/personad/internal/telemetry"
)

// Config holds the complete personad configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	CORS      CORSConfig       `koanf:"cors"`
	Generator GeneratorConfig  `koanf:"generator"`
	Secrets   secrets.Config   `koanf:"secrets"`
	Logging   LoggingConfig    `koanf:"logging"`
	Telemetry telemetry.Config `koanf:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	BodyLimit       string   `koanf:"body_limit"` // echo size notation, e.g. "1M"
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CORSConfig holds cross-origin settings for the browser client.
type CORSConfig struct {
	Environment    string   `koanf:"environment"`
	FrontendURL    string   `koanf:"frontend_url"`
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Origins returns the allowed origins. Outside production every origin is
// allowed. In production FrontendURL wins over AllowedOrigins.
func (c CORSConfig) Origins() []string {
	if !strings.EqualFold(c.Environment, "production") {
		return []string{"*"}
	}
	if c.FrontendURL != "" {
		return []string{c.FrontendURL}
	}
	return c.AllowedOrigins
}

// GeneratorConfig holds generative backend settings.
type GeneratorConfig struct {
	Provider    string   `koanf:"provider"` // "none", "openrouter", "openai", "anthropic"
	APIKey      Secret   `koanf:"api_key"`
	BaseURL     string   `koanf:"base_url"`
	Model       string   `koanf:"model"`
	Timeout     Duration `koanf:"timeout"`
	MaxTokens   int      `koanf:"max_tokens"`
	Temperature float64  `koanf:"temperature"`
	RateLimit   float64  `koanf:"rate_limit"` // requests per second
	Burst       int      `koanf:"burst"`
}

// LLMConfig converts to the backend package's configuration.
func (g GeneratorConfig) LLMConfig() llm.Config {
	return llm.Config{
		Provider:  g.Provider,
		APIKey:    g.APIKey.Value(),
		BaseURL:   g.BaseURL,
		Model:     g.Model,
		Timeout:   g.Timeout.Duration(),
		RateLimit: g.RateLimit,
		Burst:     g.Burst,
	}
}

// LoggingConfig holds the logging settings exposed to operators.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	switch strings.ToLower(c.Generator.Provider) {
	case "", llm.ProviderNone, llm.ProviderOpenRouter, llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("unknown generator provider: %q", c.Generator.Provider)
	}
	if c.Generator.Timeout <= 0 {
		return errors.New("generator timeout must be positive")
	}
	if c.Generator.MaxTokens <= 0 {
		return fmt.Errorf("generator max_tokens must be positive, got %d", c.Generator.MaxTokens)
	}
	if c.Generator.Temperature < 0 || c.Generator.Temperature > 2 {
		return fmt.Errorf("generator temperature must be within [0, 2], got %v", c.Generator.Temperature)
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}
