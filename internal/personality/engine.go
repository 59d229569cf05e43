package personality

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/personad/internal/extraction"
	"github.com/fyrsmithlabs/personad/internal/llm"
	"github.com/fyrsmithlabs/personad/internal/secrets"
)

var tracer = otel.Tracer("personad/personality")

// Generation defaults.
const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.8
)

// BackendRuleBased identifies results produced by the deterministic templates.
const BackendRuleBased = "rule-based"

// TransformResult is one styled rewrite of a base reply.
type TransformResult struct {
	OriginalReply         string `json:"original_reply"`
	TransformedReply      string `json:"transformed_reply"`
	PersonalityStyle      string `json:"personality_style"`
	Reasoning             string `json:"reasoning"`
	AdaptationsApplied    bool   `json:"adaptations_applied"`
	UsedGenerativeBackend bool   `json:"used_generative_backend"`
	BackendIdentifier     string `json:"backend_identifier"`
}

// ComparisonResult holds one TransformResult per catalog style.
type ComparisonResult struct {
	OriginalReply         string            `json:"original_reply"`
	PersonalityVariations []TransformResult `json:"personality_variations"`
}

// Engine rewrites replies in a personality style.
type Engine struct {
	generator   llm.Generator
	redactor    secrets.Redactor
	logger      *zap.Logger
	metrics     *Metrics
	tracer      trace.Tracer
	maxTokens   int
	temperature float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithGenerator sets the generative backend. Without one every transform
// is deterministic.
func WithGenerator(gen llm.Generator) Option {
	return func(e *Engine) {
		if gen != nil {
			e.generator = gen
		}
	}
}

// WithRedactor sets the redactor applied to text sent to the backend.
func WithRedactor(r secrets.Redactor) Option {
	return func(e *Engine) {
		if r != nil {
			e.redactor = r
		}
	}
}

// WithGenerationParams overrides the token cap and sampling temperature.
// Non-positive token caps and negative temperatures are ignored.
func WithGenerationParams(maxTokens int, temperature float64) Option {
	return func(e *Engine) {
		if maxTokens > 0 {
			e.maxTokens = maxTokens
		}
		if temperature >= 0 {
			e.temperature = temperature
		}
	}
}

// NewEngine creates a personality engine.
func NewEngine(logger *zap.Logger, opts ...Option) (*Engine, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	e := &Engine{
		generator:   llm.NoopGenerator{},
		redactor:    secrets.Noop{},
		logger:      logger,
		metrics:     NewMetrics(),
		tracer:      tracer,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// GeneratorAvailable reports whether a generative backend is configured.
func (e *Engine) GeneratorAvailable() bool {
	return e.generator.Available()
}

// Backend names the backend that Transform tries first.
func (e *Engine) Backend() string {
	if !e.generator.Available() {
		return BackendRuleBased
	}
	return e.generator.Name()
}

// outcome tags the result of a generative attempt.
type outcome int

const (
	outcomeGenerative outcome = iota
	outcomeUnavailable
	outcomeFailed
)

// Transform rewrites baseReply in style. memory may be nil.
//
// Transform never fails: when the generative backend is unavailable or
// returns an error, the deterministic templates are used instead.
func (e *Engine) Transform(ctx context.Context, baseReply, style string, memory *extraction.MemoryRecord) TransformResult {
	ctx, span := e.tracer.Start(ctx, "Engine.Transform")
	defer span.End()
	span.SetAttributes(attribute.String("style", style))

	result, out, err := e.attemptGenerative(ctx, baseReply, style, memory)
	switch out {
	case outcomeGenerative:
		e.metrics.TransformsTotal.WithLabelValues(styleLabel(style), pathGenerative).Inc()
		return result
	case outcomeFailed:
		e.logger.Warn("generative transform failed, using rule-based fallback",
			zap.String("style", style),
			zap.String("backend", e.generator.Name()),
			zap.Error(err))
		span.RecordError(err)
		result = e.deterministic(baseReply, style, memory)
		e.metrics.TransformsTotal.WithLabelValues(styleLabel(style), pathFallback).Inc()
		return result
	default:
		result = e.deterministic(baseReply, style, memory)
		e.metrics.TransformsTotal.WithLabelValues(styleLabel(style), pathDeterministic).Inc()
		return result
	}
}

// Compare runs Transform once per catalog style, in catalog order.
func (e *Engine) Compare(ctx context.Context, baseReply string, memory *extraction.MemoryRecord) ComparisonResult {
	ctx, span := e.tracer.Start(ctx, "Engine.Compare")
	defer span.End()

	variations := make([]TransformResult, 0, len(catalog))
	for _, s := range Styles() {
		variations = append(variations, e.Transform(ctx, baseReply, string(s), memory))
	}
	return ComparisonResult{
		OriginalReply:         baseReply,
		PersonalityVariations: variations,
	}
}

func (e *Engine) attemptGenerative(ctx context.Context, baseReply, style string, memory *extraction.MemoryRecord) (TransformResult, outcome, error) {
	if !e.generator.Available() {
		return TransformResult{}, outcomeUnavailable, nil
	}

	profile, _ := Profile(style)
	userContext := e.scrub(summarizeContext(memory))
	system := systemPrompt(profile, userContext)
	user := userPrompt(style, e.scrub(baseReply))

	backend := e.generator.Name()
	start := time.Now()
	output, err := e.generator.Generate(ctx, system, user, e.maxTokens, e.temperature)
	e.metrics.GeneratorDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, llm.ErrBackendUnavailable) {
			return TransformResult{}, outcomeUnavailable, nil
		}
		return TransformResult{}, outcomeFailed, err
	}

	reply, reasoning := parseGenerated(output)
	if reply == "" {
		return TransformResult{}, outcomeFailed, fmt.Errorf("%w: empty transformed reply", llm.ErrBackendFailure)
	}

	e.logger.Debug("generative transform complete",
		zap.String("style", style),
		zap.String("backend", backend),
		zap.Duration("duration", time.Since(start)))

	return TransformResult{
		OriginalReply:         baseReply,
		TransformedReply:      reply,
		PersonalityStyle:      style,
		Reasoning:             reasoning,
		AdaptationsApplied:    memory != nil,
		UsedGenerativeBackend: true,
		BackendIdentifier:     backend,
	}, outcomeGenerative, nil
}

// deterministic applies the template of the resolved style.
func (e *Engine) deterministic(baseReply, style string, memory *extraction.MemoryRecord) TransformResult {
	profile, _ := Profile(style)
	name := string(profile.Name)

	reasoning := fmt.Sprintf("Rule-based adaptation using '%s' personality style.", name)
	if memory != nil && len(memory.EmotionalPatterns) > 0 && profile.Name != StyleTherapist {
		switch emotion := memory.EmotionalPatterns[0].Emotion; emotion {
		case extraction.EmotionSadness, extraction.EmotionFear:
			reasoning += fmt.Sprintf(" Detected %s - adding empathetic tone.", emotion)
		}
	}
	reasoning += profile.Character

	return TransformResult{
		OriginalReply:         baseReply,
		TransformedReply:      profile.LeadIn + baseReply + profile.SignOff,
		PersonalityStyle:      name,
		Reasoning:             reasoning,
		AdaptationsApplied:    memory != nil,
		UsedGenerativeBackend: false,
		BackendIdentifier:     BackendRuleBased,
	}
}

// scrub removes secrets from text bound for the generative backend.
func (e *Engine) scrub(text string) string {
	if text == "" || !e.redactor.Enabled() {
		return text
	}
	res := e.redactor.Redact(text)
	if n := len(res.Findings); n > 0 {
		e.metrics.SecretsScrubbed.Add(float64(n))
		e.logger.Info("scrubbed secrets from generative prompt", zap.Int("count", n))
	}
	return res.Text
}
