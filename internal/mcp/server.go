package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/personad/internal/extraction"
	"github.com/fyrsmithlabs/personad/internal/personality"
	"github.com/fyrsmithlabs/personad/internal/secrets"
)

// Server is an MCP server backed by the extractor and personality engine.
type Server struct {
	mcp         *mcp.Server
	extractor   extraction.Extractor
	engine      *personality.Engine
	redactor    secrets.Redactor
	metrics     *Metrics
	logger      *zap.Logger
	maxMessages int
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "personad")
	Name string

	// Version is the server version (default: "1.0.0")
	Version string

	// Logger for structured logging. Must not write to stdout.
	Logger *zap.Logger

	// MaxMessages caps the messages accepted per call (default: 1000)
	MaxMessages int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:        "personad",
		Version:     "1.0.0",
		Logger:      zap.NewNop(),
		MaxMessages: 1000,
	}
}

// NewServer creates a new MCP server and registers its tools.
func NewServer(cfg *Config, extractor extraction.Extractor, engine *personality.Engine, redactor secrets.Redactor) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = DefaultConfig().MaxMessages
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("personality engine is required")
	}
	if redactor == nil {
		redactor = secrets.Noop{}
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:         mcpServer,
		extractor:   extractor,
		engine:      engine,
		redactor:    redactor,
		metrics:     NewMetrics(cfg.Logger),
		logger:      cfg.Logger,
		maxMessages: cfg.MaxMessages,
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	if err := s.mcp.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// MCPServer returns the underlying SDK server, e.g. to connect it to a
// different transport.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}
