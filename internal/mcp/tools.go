package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/personad/internal/extraction"
	"github.com/fyrsmithlabs/personad/internal/personality"
)

const defaultSampleReply = "Here is a suggested plan."

type memoryExtractInput struct {
	Messages []string `json:"messages" jsonschema:"chat messages to scan, in order"`
}

type personalityTransformInput struct {
	Messages    []string `json:"messages" jsonschema:"chat messages used as user context"`
	Style       string   `json:"style,omitempty" jsonschema:"calm_mentor, witty_friend or therapist (default: calm_mentor)"`
	SampleReply string   `json:"sample_reply,omitempty" jsonschema:"the reply to restyle (default: Here is a suggested plan.)"`
}

type personalityTransformOutput struct {
	Extracted           extraction.MemoryRecord     `json:"extracted"`
	PersonalityResponse personality.TransformResult `json:"personality_response"`
}

type personalityCompareInput struct {
	Messages    []string `json:"messages" jsonschema:"chat messages used as user context"`
	SampleReply string   `json:"sample_reply,omitempty" jsonschema:"the reply to restyle (default: Here is a suggested plan.)"`
}

type personalityCompareOutput struct {
	ExtractedContext      extraction.MemoryRecord      `json:"extracted_context"`
	PersonalityComparison personality.ComparisonResult `json:"personality_comparison"`
}

type secretsScrubInput struct {
	Content string `json:"content" jsonschema:"text to redact"`
}

type secretsScrubOutput struct {
	Content       string `json:"content"`
	FindingsCount int    `json:"findings_count"`
}

// track records invocation metrics for a tool call. The returned func must
// be deferred with a pointer to the handler's error.
func (s *Server) track(ctx context.Context, tool string) func(*error) {
	start := time.Now()
	s.metrics.IncrementActive(ctx, tool)
	return func(errp *error) {
		s.metrics.DecrementActive(ctx, tool)
		s.metrics.RecordInvocation(ctx, tool, time.Since(start), *errp)
	}
}

func (s *Server) validateMessages(messages []string) error {
	if len(messages) > s.maxMessages {
		return fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyMessages, len(messages), s.maxMessages)
	}
	return nil
}

func (s *Server) registerTools() {
	// memory_extract
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "memory_extract",
		Description: "Extract preferences, emotional patterns and personal facts from chat messages",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args memoryExtractInput) (_ *mcp.CallToolResult, _ extraction.MemoryRecord, toolErr error) {
		defer s.track(ctx, "memory_extract")(&toolErr)

		if err := s.validateMessages(args.Messages); err != nil {
			return nil, extraction.MemoryRecord{}, err
		}

		memory := s.extractor.Extract(args.Messages)

		s.logger.Debug("memory extracted",
			zap.Int("messages", len(args.Messages)),
			zap.Int("preferences", len(memory.Preferences)),
			zap.Int("emotions", len(memory.EmotionalPatterns)),
			zap.Int("facts", len(memory.Facts)))

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Extracted %d preferences, %d emotional patterns, %d facts",
					len(memory.Preferences), len(memory.EmotionalPatterns), len(memory.Facts))},
			},
		}, *memory, nil
	})

	// personality_transform
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "personality_transform",
		Description: "Rewrite a reply in a personality style using context extracted from chat messages",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args personalityTransformInput) (_ *mcp.CallToolResult, _ personalityTransformOutput, toolErr error) {
		defer s.track(ctx, "personality_transform")(&toolErr)

		if err := s.validateMessages(args.Messages); err != nil {
			return nil, personalityTransformOutput{}, err
		}
		if args.Style == "" {
			args.Style = string(personality.DefaultStyle)
		}
		if args.SampleReply == "" {
			args.SampleReply = defaultSampleReply
		}

		memory := s.extractor.Extract(args.Messages)
		result := s.engine.Transform(ctx, args.SampleReply, args.Style, memory)

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.TransformedReply},
			},
		}, personalityTransformOutput{Extracted: *memory, PersonalityResponse: result}, nil
	})

	// personality_compare
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "personality_compare",
		Description: "Rewrite a reply once in every personality style for side-by-side comparison",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args personalityCompareInput) (_ *mcp.CallToolResult, _ personalityCompareOutput, toolErr error) {
		defer s.track(ctx, "personality_compare")(&toolErr)

		if err := s.validateMessages(args.Messages); err != nil {
			return nil, personalityCompareOutput{}, err
		}
		if args.SampleReply == "" {
			args.SampleReply = defaultSampleReply
		}

		memory := s.extractor.Extract(args.Messages)
		comparison := s.engine.Compare(ctx, args.SampleReply, memory)

		content := make([]mcp.Content, 0, len(comparison.PersonalityVariations))
		for _, v := range comparison.PersonalityVariations {
			content = append(content, &mcp.TextContent{
				Text: fmt.Sprintf("[%s] %s", v.PersonalityStyle, v.TransformedReply),
			})
		}

		return &mcp.CallToolResult{Content: content},
			personalityCompareOutput{ExtractedContext: *memory, PersonalityComparison: comparison}, nil
	})

	// secrets_scrub
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "secrets_scrub",
		Description: "Redact API keys, tokens and other credentials from text",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args secretsScrubInput) (_ *mcp.CallToolResult, _ secretsScrubOutput, toolErr error) {
		defer s.track(ctx, "secrets_scrub")(&toolErr)

		if args.Content == "" {
			return nil, secretsScrubOutput{}, ErrEmptyContent
		}

		res := s.redactor.Redact(args.Content)
		out := secretsScrubOutput{Content: res.Text, FindingsCount: len(res.Findings)}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: out.Content}},
		}, out, nil
	})
}
