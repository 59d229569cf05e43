package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fyrsmithlabs/personad/internal/config"
	"github.com/fyrsmithlabs/personad/internal/extraction"
	"github.com/fyrsmithlabs/personad/internal/mcp"
)

// runStdioServer serves the MCP tools over stdio. stdout carries the
// protocol, so logs go to stderr.
func runStdioServer(ctx context.Context, cfg *config.Config) error {
	logger, err := initLogger(cfg, "stderr")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// No scrape endpoint in stdio mode; spans still carry trace IDs.
	tel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		_ = tel.Shutdown(context.Background())
	}()

	svc, err := initServices(cfg, logger.Underlying())
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	mcpCfg := mcp.DefaultConfig()
	mcpCfg.Version = version
	mcpCfg.Logger = logger.Underlying()

	server, err := mcp.NewServer(mcpCfg, extraction.Default, svc.engine, svc.redactor)
	if err != nil {
		return fmt.Errorf("failed to create mcp server: %w", err)
	}

	fmt.Fprintf(os.Stderr, "personad stdio mode started (backend: %s)\n", svc.engine.Backend())

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}

	logger.Info(ctx, "stdio MCP server shutdown complete")
	return nil
}
