package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/personad/internal/llm"
	"github.com/fyrsmithlabs/personad/internal/secrets"
	"github.com/fyrsmithlabs/personad/internal/telemetry"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB
	envPrefix         = "PERSONAD_"
)

// legacyEnv maps environment variables used by earlier deployments to
// config keys. PERSONAD_* variables still take precedence.
var legacyEnv = map[string]string{
	"OPENROUTER_API_KEY": "generator.api_key",
	"LLM_MODEL":          "generator.model",
	"HOST":               "server.host",
	"PORT":               "server.http_port",
	"ENVIRONMENT":        "cors.environment",
	"FRONTEND_URL":       "cors.frontend_url",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ShutdownTimeout: Duration(10 * time.Second),
			BodyLimit:       "1M",
		},
		CORS: CORSConfig{
			Environment: "development",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:3001",
				"http://localhost:3002",
				"http://127.0.0.1:3000",
			},
		},
		Generator: GeneratorConfig{
			Provider:    llm.ProviderOpenRouter,
			Timeout:     Duration(llm.DefaultTimeout),
			MaxTokens:   500,
			Temperature: 0.8,
		},
		Secrets: secrets.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: telemetry.NewDefaultConfig(),
	}
}

// LoadWithFile loads configuration from defaults, a YAML file and the
// environment.
//
// Configuration precedence (highest to lowest):
//  1. PERSONAD_* environment variables (PERSONAD_SERVER_HTTP_PORT, PERSONAD_GENERATOR_MODEL, ...)
//  2. Legacy environment variables (OPENROUTER_API_KEY, LLM_MODEL, HOST, PORT, ENVIRONMENT, FRONTEND_URL)
//  3. YAML config file (~/.config/personad/config.yaml)
//  4. Built-in defaults
//
// A .env file in the working directory is loaded into the process
// environment first; variables already set are not overwritten.
//
// # Security Considerations
//
// The config file must have 0600 or 0400 permissions, live under
// ~/.config/personad/ or /etc/personad/, and be at most 1MB.
//
// # Environment Variable Mapping
//
// The prefix is stripped and the first underscore separates section from field:
//
//	PERSONAD_SERVER_HTTP_PORT  -> server.http_port
//	PERSONAD_GENERATOR_API_KEY -> generator.api_key
//	PERSONAD_SECRETS_ENABLED   -> secrets.enabled
//	PERSONAD_TELEMETRY_ENABLED -> telemetry.enabled
func LoadWithFile(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "personad", "config.yaml")
	}

	if err := validateConfigPath(configPath); err != nil {
		return nil, fmt.Errorf("config path validation failed: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	for name, key := range legacyEnv {
		if v := os.Getenv(name); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("failed to apply %s: %w", name, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps PERSONAD_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// readConfigFile opens the file once and validates it through the open
// descriptor to avoid a TOCTOU race.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateConfigFileProperties(info); err != nil {
		return nil, fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// validateConfigPath checks if path is in allowed directories.
// This validation runs even if the file doesn't exist yet.
func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	// Follow symlinks so they cannot escape the allowed directories.
	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		resolvedPath = absPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	allowedDirs := []string{
		filepath.Join(home, ".config", "personad"),
		"/etc/personad",
	}
	for _, dir := range allowedDirs {
		if resolvedPath == dir || strings.HasPrefix(resolvedPath, dir+string(filepath.Separator)) {
			return nil
		}
	}

	return fmt.Errorf("config file must be in ~/.config/personad/ or /etc/personad/")
}

// validateConfigFileProperties checks file permissions and size.
func validateConfigFileProperties(info os.FileInfo) error {
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	return nil
}
