// Package http provides the REST API for personad.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/personad/internal/extraction"
	"github.com/fyrsmithlabs/personad/internal/logging"
	"github.com/fyrsmithlabs/personad/internal/personality"
	"github.com/fyrsmithlabs/personad/internal/secrets"
)

// Server provides HTTP endpoints for personad.
type Server struct {
	echo      *echo.Echo
	extractor extraction.Extractor
	engine    *personality.Engine
	redactor  secrets.Redactor
	logger    *zap.Logger
	config    *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host         string
	Port         int
	BodyLimit    string   // echo size notation, e.g. "1M"
	AllowOrigins []string // "*" allows every origin
	Version      string
}

// NewServer creates a new HTTP server.
func NewServer(extractor extraction.Extractor, engine *personality.Engine, redactor secrets.Redactor, logger *zap.Logger, cfg *Config) (*Server, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("personality engine cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if redactor == nil {
		redactor = secrets.Noop{}
	}
	if cfg == nil {
		cfg = &Config{
			Host: "0.0.0.0",
			Port: 8000,
		}
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			fields := append(logging.ContextFields(c.Request().Context()),
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", responseStatus(c, err)),
				zap.Duration("duration", duration),
			)
			logger.Info("http request", fields...)

			return err
		}
	})
	e.Use(corsMiddleware(cfg.AllowOrigins))
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	s := &Server{
		echo:      e,
		extractor: extractor,
		engine:    engine,
		redactor:  redactor,
		logger:    logger,
		config:    cfg,
	}

	s.registerRoutes()

	return s, nil
}

func corsMiddleware(origins []string) echo.MiddlewareFunc {
	wildcard := false
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		AllowCredentials: !wildcard,
	})
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.POST("/extract", s.handleExtract)
	s.echo.POST("/transform", s.handleTransform)
	s.echo.POST("/compare", s.handleCompare)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.POST("/scrub", s.handleScrub)
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, RootResponse{
		Message:   "Memory + Personality API",
		Endpoints: []string{"/extract", "/transform", "/compare", "/health"},
		Version:   s.config.Version,
		Status:    "operational",
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		LLMAvailable: s.engine.GeneratorAvailable(),
		Backend:      s.engine.Backend(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleExtract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid extract request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return c.JSON(http.StatusOK, s.extractor.Extract(req.Messages))
}

func (s *Server) handleTransform(c echo.Context) error {
	req, err := s.bindTransform(c)
	if err != nil {
		return err
	}

	memory := s.extractor.Extract(req.Messages)
	result := s.engine.Transform(c.Request().Context(), req.SampleReply, req.Style, memory)

	return c.JSON(http.StatusOK, TransformResponse{
		Extracted:           memory,
		PersonalityResponse: result,
	})
}

func (s *Server) handleCompare(c echo.Context) error {
	req, err := s.bindTransform(c)
	if err != nil {
		return err
	}

	memory := s.extractor.Extract(req.Messages)
	comparison := s.engine.Compare(c.Request().Context(), req.SampleReply, memory)

	return c.JSON(http.StatusOK, CompareResponse{
		ExtractedContext:      memory,
		PersonalityComparison: comparison,
	})
}

// bindTransform decodes a TransformRequest and fills in defaults.
func (s *Server) bindTransform(c echo.Context) (TransformRequest, error) {
	var req TransformRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid transform request", zap.Error(err))
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Style) == "" {
		req.Style = DefaultStyle
	}
	if req.SampleReply == "" {
		req.SampleReply = DefaultSampleReply
	}
	return req, nil
}

// handleScrub redacts secrets from the provided content.
func (s *Server) handleScrub(c echo.Context) error {
	var req ScrubRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid scrub request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
	}

	result := s.redactor.Redact(req.Content)

	s.logger.Debug("scrubbed content", zap.Int("findings", len(result.Findings)))

	return c.JSON(http.StatusOK, ScrubResponse{
		Content:       result.Text,
		FindingsCount: len(result.Findings),
	})
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
