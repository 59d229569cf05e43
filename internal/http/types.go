package http

import (
	"github.com/fyrsmithlabs/personad/internal/extraction"
	"github.com/fyrsmithlabs/personad/internal/personality"
)

// Request defaults applied when a field is missing or empty.
const (
	DefaultStyle       = string(personality.DefaultStyle)
	DefaultSampleReply = "Here is a suggested plan."
)

// ExtractRequest is the request body for POST /extract.
type ExtractRequest struct {
	Messages []string `json:"messages"`
}

// TransformRequest is the request body for POST /transform and POST /compare.
// Compare ignores Style.
type TransformRequest struct {
	Messages    []string `json:"messages"`
	Style       string   `json:"style"`
	SampleReply string   `json:"sample_reply"`
}

// TransformResponse is the response body for POST /transform.
type TransformResponse struct {
	Extracted           *extraction.MemoryRecord    `json:"extracted"`
	PersonalityResponse personality.TransformResult `json:"personality_response"`
}

// CompareResponse is the response body for POST /compare.
type CompareResponse struct {
	ExtractedContext      *extraction.MemoryRecord     `json:"extracted_context"`
	PersonalityComparison personality.ComparisonResult `json:"personality_comparison"`
}

// RootResponse is the response body for GET /.
type RootResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
	Version   string   `json:"version"`
	Status    string   `json:"status"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	LLMAvailable bool   `json:"llm_available"`
	Backend      string `json:"backend"`
	Timestamp    string `json:"timestamp"`
}

// ScrubRequest is the request body for POST /api/v1/scrub.
type ScrubRequest struct {
	Content string `json:"content"`
}

// ScrubResponse is the response body for POST /api/v1/scrub.
type ScrubResponse struct {
	Content       string `json:"content"`
	FindingsCount int    `json:"findings_count"`
}
