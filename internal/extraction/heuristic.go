package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HeuristicExtractor implements Extractor using keyword tables and regexes.
// It holds no mutable state and is safe for concurrent use.
type HeuristicExtractor struct {
	preferences []KeywordGroup
	emotions    []KeywordGroup
	facts       []*compiledPattern
}

// compiledPattern holds a pre-compiled fact pattern.
type compiledPattern struct {
	FactPattern
	regex *regexp.Regexp
}

// NewHeuristicExtractor creates an extractor over the given lexicon.
func NewHeuristicExtractor(lex Lexicon) (*HeuristicExtractor, error) {
	compiled := make([]*compiledPattern, 0, len(lex.Facts))
	for _, p := range lex.Facts {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("compiling fact pattern %q: %w", p.Name, err)
		}
		if p.Group > re.NumSubexp() {
			return nil, fmt.Errorf("fact pattern %q: group %d out of range", p.Name, p.Group)
		}
		compiled = append(compiled, &compiledPattern{
			FactPattern: p,
			regex:       re,
		})
	}

	return &HeuristicExtractor{
		preferences: lex.Preferences,
		emotions:    lex.Emotions,
		facts:       compiled,
	}, nil
}

// Default is the extractor over DefaultLexicon.
var Default = mustDefault()

func mustDefault() *HeuristicExtractor {
	h, err := NewHeuristicExtractor(DefaultLexicon())
	if err != nil {
		panic(err)
	}
	return h
}

// Extract scans each message for preferences, then emotions, then facts.
func (h *HeuristicExtractor) Extract(messages []string) *MemoryRecord {
	record := NewMemoryRecord()

	for _, msg := range messages {
		lower := strings.ToLower(msg)

		for _, group := range h.preferences {
			for _, kw := range group.Keywords {
				if strings.Contains(lower, kw) {
					record.Preferences = append(record.Preferences, Preference{
						Type:    PreferenceType(group.Name),
						Value:   kw,
						Context: msg,
					})
				}
			}
		}

		for _, group := range h.emotions {
			for _, kw := range group.Keywords {
				if strings.Contains(lower, kw) {
					record.EmotionalPatterns = append(record.EmotionalPatterns, EmotionalPattern{
						Emotion: Emotion(group.Name),
						Trigger: kw,
						Context: msg,
					})
				}
			}
		}

		for _, p := range h.facts {
			text := msg
			if p.Lower {
				text = lower
			}
			for _, m := range p.regex.FindAllStringSubmatch(text, -1) {
				value := m[p.Group]
				if p.Lower {
					value = capitalizeFirst(value)
				}
				record.Facts = append(record.Facts, Fact{
					Type:    p.Type,
					Value:   value,
					Context: msg,
				})
			}
		}
	}

	return record
}

// capitalizeFirst upper-cases the first letter of s and leaves the rest untouched.
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Ensure HeuristicExtractor implements Extractor.
var _ Extractor = (*HeuristicExtractor)(nil)
