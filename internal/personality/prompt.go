package personality

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/personad/internal/extraction"
)

const (
	noContext        = "No specific context available."
	defaultReasoning = "LLM-generated personality transformation"
	generatedPrefix  = "LLM transformation: "
)

// summarizeContext renders the leading entries of a memory record as a
// short prose summary for the system prompt. A nil record yields "".
func summarizeContext(memory *extraction.MemoryRecord) string {
	if memory == nil {
		return ""
	}

	var b strings.Builder

	if len(memory.Preferences) > 0 {
		prefs := memory.Preferences[:min(3, len(memory.Preferences))]
		items := make([]string, len(prefs))
		for i, p := range prefs {
			items[i] = fmt.Sprintf("%s: %s", p.Type, p.Value)
		}
		fmt.Fprintf(&b, "User preferences: %s. ", strings.Join(items, ", "))
	}

	if len(memory.EmotionalPatterns) > 0 {
		emotions := memory.EmotionalPatterns[:min(2, len(memory.EmotionalPatterns))]
		items := make([]string, len(emotions))
		for i, e := range emotions {
			items[i] = fmt.Sprintf("%s (trigger: %s)", e.Emotion, e.Trigger)
		}
		fmt.Fprintf(&b, "Emotional patterns: %s. ", strings.Join(items, ", "))
	}

	// Only the first three facts are considered, then filtered.
	var personal []string
	for _, f := range memory.Facts[:min(3, len(memory.Facts))] {
		if f.Type == extraction.FactPersonalInfo {
			personal = append(personal, f.Value)
		}
	}
	if len(personal) > 0 {
		fmt.Fprintf(&b, "Personal info: %s. ", strings.Join(personal, ", "))
	}

	return strings.TrimSpace(b.String())
}

func systemPrompt(p StyleProfile, userContext string) string {
	if userContext == "" {
		userContext = noContext
	}
	return fmt.Sprintf(`%s

Your task: Transform technical responses to match your personality style.

Style Guidelines:
- Tone: %s
- Approach: %s

Context about the user: %s

Important:
- Keep the technical accuracy intact
- Adapt the delivery to your personality
- Consider the user's emotional state if provided
- Be natural and authentic to your character`, p.Persona, p.Tone, p.Approach, userContext)
}

func userPrompt(style, baseReply string) string {
	return fmt.Sprintf(`Transform this technical response using the '%s' personality:

Original: "%s"

Please provide a transformed version that maintains technical accuracy while embodying your personality style. Also explain your reasoning for the transformation choices.`, style, baseReply)
}

// parseGenerated separates a generated reply from the backend's explanation
// of it. The split is only used when the marker occurs exactly once.
//
// The reply may come back empty, for output that is only "Reasoning: ...".
// Transform treats that as a failed generation and falls back to the
// rule-based templates rather than returning an empty reply.
func parseGenerated(output string) (reply, reasoning string) {
	reply = strings.TrimSpace(output)
	reasoning = defaultReasoning

	marker := ""
	switch {
	case strings.Contains(reply, "Reasoning:"):
		marker = "Reasoning:"
	case strings.Contains(reply, "Explanation:"):
		marker = "Explanation:"
	default:
		return reply, generatedPrefix + reasoning
	}

	if parts := strings.Split(reply, marker); len(parts) == 2 {
		reply = strings.TrimSpace(parts[0])
		reasoning = strings.TrimSpace(parts[1])
	}
	return reply, generatedPrefix + reasoning
}
