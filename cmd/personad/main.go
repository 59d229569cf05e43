// Personad serves memory extraction and personality rewriting over HTTP,
// or over MCP stdio with the mcp subcommand.
//
// Configuration is loaded from ~/.config/personad/config.yaml, a .env file
// and the environment. See internal/config for details.
//
// Usage:
//
//	# Start the HTTP API on :8000
//	personad
//
//	# Serve MCP tools over stdio
//	personad mcp
//
//	# Configure via environment
//	PERSONAD_SERVER_HTTP_PORT=9000 OPENROUTER_API_KEY=sk-or-v1-... personad
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/personad/internal/config"
	"github.com/fyrsmithlabs/personad/internal/extraction"
	httpserver "github.com/fyrsmithlabs/personad/internal/http"
	"github.com/fyrsmithlabs/personad/internal/llm"
	"github.com/fyrsmithlabs/personad/internal/logging"
	"github.com/fyrsmithlabs/personad/internal/personality"
	"github.com/fyrsmithlabs/personad/internal/secrets"
	"github.com/fyrsmithlabs/personad/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/personad/config.yaml)")
	flag.Parse()
	args := flag.Args()

	mode := "serve"
	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion(os.Stdout)
			os.Exit(0)
		case "serve", "mcp":
			mode = args[0]
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  personad           Start the HTTP API\n")
			fmt.Fprintf(os.Stderr, "  personad mcp       Serve MCP tools over stdio\n")
			fmt.Fprintf(os.Stderr, "  personad version   Show version information\n")
			os.Exit(1)
		}
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	cfg, err := config.LoadWithFile(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if mode == "mcp" {
		err = runStdioServer(ctx, cfg)
	} else {
		err = run(ctx, cfg)
	}
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "personad by Fyrsmith Labs\n")
	fmt.Fprintf(w, "Version:    %s\n", version)
	fmt.Fprintf(w, "Commit:     %s\n", gitCommit)
	fmt.Fprintf(w, "Build Date: %s\n", buildDate)
}

// run starts the HTTP API and blocks until ctx is cancelled, then shuts
// the server down within the configured timeout.
func run(ctx context.Context, cfg *config.Config) error {
	logger, err := initLogger(cfg, "stdout")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	tel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
		}
	}()

	svc, err := initServices(cfg, logger.Underlying())
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info(ctx, "Starting personad",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("backend", svc.engine.Backend()),
		zap.Bool("generator_available", svc.engine.GeneratorAvailable()),
		zap.Bool("telemetry", tel.Enabled()),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()))

	srv, err := httpserver.NewServer(extraction.Default, svc.engine, svc.redactor, logger.Underlying(), &httpserver.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		BodyLimit:    cfg.Server.BodyLimit,
		AllowOrigins: cfg.CORS.Origins(),
		Version:      "1.0.0",
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info(ctx, "Server shutdown complete")
	return nil
}

// initTelemetry installs the otel meter and tracer providers. It must run
// before the HTTP and MCP servers create their instruments.
func initTelemetry(ctx context.Context, cfg *config.Config, opts ...telemetry.Option) (*telemetry.Telemetry, error) {
	telCfg := cfg.Telemetry
	if version != "dev" {
		telCfg.ServiceVersion = version
	}
	return telemetry.New(ctx, telCfg, opts...)
}

// services holds the components shared by the HTTP and MCP surfaces.
type services struct {
	engine   *personality.Engine
	redactor secrets.Redactor
}

// initServices builds the generator, redactor and personality engine.
func initServices(cfg *config.Config, logger *zap.Logger) (*services, error) {
	gen, err := llm.New(cfg.Generator.LLMConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	if cfg.Generator.APIKey.IsSet() {
		logger.Debug("generator key configured",
			zap.String("provider", cfg.Generator.Provider),
			zap.String("key", cfg.Generator.APIKey.Hint()),
		)
	}

	redactor, err := secrets.New(cfg.Secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to create redactor: %w", err)
	}

	engine, err := personality.NewEngine(logger,
		personality.WithGenerator(gen),
		personality.WithRedactor(redactor),
		personality.WithGenerationParams(cfg.Generator.MaxTokens, cfg.Generator.Temperature),
	)
	if err != nil {
		return nil, err
	}

	return &services{engine: engine, redactor: redactor}, nil
}

// initLogger builds the structured logger from config. MCP stdio mode
// must log to stderr.
func initLogger(cfg *config.Config, writer string) (*logging.Logger, error) {
	logCfg := logging.NewDefaultConfig()

	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format
	logCfg.Output.Writer = writer

	return logging.NewLogger(logCfg)
}
