package personality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/personad/internal/extraction"
)

func TestParseGenerated(t *testing.T) {
	tests := []struct {
		name          string
		output        string
		wantReply     string
		wantReasoning string
	}{
		{
			name:          "no marker",
			output:        "  Just the reply.  ",
			wantReply:     "Just the reply.",
			wantReasoning: "LLM transformation: LLM-generated personality transformation",
		},
		{
			name:          "reasoning marker",
			output:        "Reply text.\nReasoning: Kept it short.",
			wantReply:     "Reply text.",
			wantReasoning: "LLM transformation: Kept it short.",
		},
		{
			name:          "explanation marker",
			output:        "Reply text.\nExplanation: Added warmth.",
			wantReply:     "Reply text.",
			wantReasoning: "LLM transformation: Added warmth.",
		},
		{
			name:          "reasoning wins over explanation",
			output:        "Reply. Explanation: ignored. Reasoning: used.",
			wantReply:     "Reply. Explanation: ignored.",
			wantReasoning: "LLM transformation: used.",
		},
		{
			name:          "repeated marker keeps whole output",
			output:        "Reasoning: a Reasoning: b",
			wantReply:     "Reasoning: a Reasoning: b",
			wantReasoning: "LLM transformation: LLM-generated personality transformation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, reasoning := parseGenerated(tt.output)
			assert.Equal(t, tt.wantReply, reply)
			assert.Equal(t, tt.wantReasoning, reasoning)
		})
	}
}

func TestSummarizeContext(t *testing.T) {
	assert.Equal(t, "", summarizeContext(nil))
	assert.Equal(t, "", summarizeContext(extraction.NewMemoryRecord()))

	memory := extraction.Default.Extract([]string{
		"I love Python and VSCode for coding.",
		"I use Docker and GitHub daily.", // "git" matches inside "github"
		"I'm sad and worried about the deadline.",
		"My name is Priya.",
	})

	got := summarizeContext(memory)
	assert.Equal(t,
		"User preferences: language: python, tools: vscode, tools: git. "+
			"Emotional patterns: sadness (trigger: sad), fear (trigger: worried).",
		got)
}

func TestSummarizeContext_PersonalInfoWindow(t *testing.T) {
	memory := extraction.NewMemoryRecord()
	memory.Facts = []extraction.Fact{
		{Type: extraction.FactName, Value: "Priya"},
		{Type: extraction.FactPersonalInfo, Value: "PhD student"},
		{Type: extraction.FactEmail, Value: "p@example.com"},
		{Type: extraction.FactPersonalInfo, Value: "outside the window"},
	}

	assert.Equal(t, "Personal info: PhD student.", summarizeContext(memory))
}

func TestPrompts(t *testing.T) {
	p, ok := Profile("therapist")
	assert.True(t, ok)

	sys := systemPrompt(p, "")
	assert.Contains(t, sys, p.Persona)
	assert.Contains(t, sys, "- Tone: "+p.Tone)
	assert.Contains(t, sys, "- Approach: "+p.Approach)
	assert.Contains(t, sys, "Context about the user: No specific context available.")
	assert.Contains(t, sys, "- Keep the technical accuracy intact")

	user := userPrompt("therapist", "Reply.")
	assert.Contains(t, user, "Transform this technical response using the 'therapist' personality:")
	assert.Contains(t, user, `Original: "Reply."`)
	assert.Contains(t, user, "Also explain your reasoning")
}

func TestStyles(t *testing.T) {
	assert.Equal(t, []Style{StyleCalmMentor, StyleWittyFriend, StyleTherapist}, Styles())
	assert.True(t, IsKnown("witty_friend"))
	assert.False(t, IsKnown("Witty_Friend"))

	p, ok := Profile("nope")
	assert.False(t, ok)
	assert.Equal(t, DefaultStyle, p.Name)
}
