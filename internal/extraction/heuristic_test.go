package extraction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicExtractor_Extract(t *testing.T) {
	extractor, err := NewHeuristicExtractor(DefaultLexicon())
	require.NoError(t, err)

	tests := []struct {
		name      string
		messages  []string
		wantPrefs []Preference
		wantEmo   []EmotionalPattern
		wantFacts []Fact
	}{
		{
			name: "preferences name and email",
			messages: []string{
				"I love Python and VSCode.",
				"My name is Surya.",
				"Contact: suraj@example.com",
			},
			wantPrefs: []Preference{
				{Type: PreferenceLanguage, Value: "python", Context: "I love Python and VSCode."},
				{Type: PreferenceTools, Value: "vscode", Context: "I love Python and VSCode."},
			},
			wantEmo: []EmotionalPattern{},
			wantFacts: []Fact{
				{Type: FactName, Value: "Surya", Context: "My name is Surya."},
				{Type: FactEmail, Value: "suraj@example.com", Context: "Contact: suraj@example.com"},
			},
		},
		{
			name:     "java matches inside javascript",
			messages: []string{"I write JavaScript daily"},
			wantPrefs: []Preference{
				{Type: PreferenceLanguage, Value: "javascript", Context: "I write JavaScript daily"},
				{Type: PreferenceLanguage, Value: "java", Context: "I write JavaScript daily"},
			},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{},
		},
		{
			name:     "several emotions in one message",
			messages: []string{"I'm worried and frustrated"},
			// Substring matching finds "rust" inside "frustrated".
			wantPrefs: []Preference{
				{Type: PreferenceLanguage, Value: "rust", Context: "I'm worried and frustrated"},
			},
			wantEmo: []EmotionalPattern{
				{Emotion: EmotionAnger, Trigger: "frustrat", Context: "I'm worried and frustrated"},
				{Emotion: EmotionFear, Trigger: "worried", Context: "I'm worried and frustrated"},
			},
			// The name patterns are lexical, so "i'm worried" captures a name.
			wantFacts: []Fact{
				{Type: FactName, Value: "Worried", Context: "I'm worried and frustrated"},
			},
		},
		{
			name:      "overlapping location patterns are all kept",
			messages:  []string{"I am living in Paris"},
			wantPrefs: []Preference{},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{
				{Type: FactName, Value: "Living", Context: "I am living in Paris"},
				{Type: FactLocation, Value: "Paris", Context: "I am living in Paris"},
				{Type: FactLocation, Value: "Paris", Context: "I am living in Paris"},
			},
		},
		{
			name:      "capitalized word run stops at punctuation",
			messages:  []string{"Living in San Francisco, California."},
			wantPrefs: []Preference{},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{
				{Type: FactLocation, Value: "San Francisco", Context: "Living in San Francisco, California."},
			},
		},
		{
			name:      "phone requires exactly ten digits",
			messages:  []string{"Call me at 9876543210 or 12345678901"},
			wantPrefs: []Preference{},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{
				{Type: FactPhone, Value: "9876543210", Context: "Call me at 9876543210 or 12345678901"},
			},
		},
		{
			name:      "mentor with middle initial",
			messages:  []string{"Today my mentor is John A. Smith"},
			wantPrefs: []Preference{},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{
				{Type: FactMentor, Value: "John A. Smith", Context: "Today my mentor is John A. Smith"},
			},
		},
		{
			name:      "mentor phrase is case sensitive",
			messages:  []string{"My mentor is Dr. Sarah Johnson."},
			wantPrefs: []Preference{},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{},
		},
		{
			name:      "name capture is capitalized",
			messages:  []string{"hi, I'm alex"},
			wantPrefs: []Preference{},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{
				{Type: FactName, Value: "Alex", Context: "hi, I'm alex"},
			},
		},
		{
			name:      "email with dots and hyphens",
			messages:  []string{"Thanks! reach me at a.b-c@mail.example.org"},
			wantPrefs: []Preference{},
			wantEmo: []EmotionalPattern{
				{Emotion: EmotionJoy, Trigger: "thanks", Context: "Thanks! reach me at a.b-c@mail.example.org"},
			},
			wantFacts: []Fact{
				{Type: FactEmail, Value: "a.b-c@mail.example.org", Context: "Thanks! reach me at a.b-c@mail.example.org"},
			},
		},
		{
			name:      "repeated keyword across messages is not deduplicated",
			messages:  []string{"python", "python"},
			wantPrefs: []Preference{{Type: PreferenceLanguage, Value: "python", Context: "python"}, {Type: PreferenceLanguage, Value: "python", Context: "python"}},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{},
		},
		{
			name:      "empty message",
			messages:  []string{""},
			wantPrefs: []Preference{},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{},
		},
		{
			name:      "no messages",
			messages:  nil,
			wantPrefs: []Preference{},
			wantEmo:   []EmotionalPattern{},
			wantFacts: []Fact{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(tt.messages)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPrefs, got.Preferences)
			assert.Equal(t, tt.wantEmo, got.EmotionalPatterns)
			assert.Equal(t, tt.wantFacts, got.Facts)
		})
	}
}

var conversation = []string{
	"I love Python and VSCode for coding.",
	"I'm worried I won't finish the assignment on time.",
	"Contact: alex.smith@example.com",
	"My number is 9876543210",
	"I'm sad about delays sometimes in my projects.",
	"Living in San Francisco, California.",
	"I use Git and GitHub for version control.",
	"I sometimes feel frustrated with environment setup issues.",
	"My name is Alex and I'm a CS graduate student.",
	"I study machine learning at Stanford University.",
}

func TestHeuristicExtractor_Deterministic(t *testing.T) {
	first := Default.Extract(conversation)
	second := Default.Extract(conversation)
	assert.Equal(t, first, second)
}

func TestHeuristicExtractor_MonotonicAccumulation(t *testing.T) {
	prev := Default.Extract(nil)
	for i := 1; i <= len(conversation); i++ {
		cur := Default.Extract(conversation[:i])
		assert.GreaterOrEqual(t, len(cur.Preferences), len(prev.Preferences), "preferences shrank at %d", i)
		assert.GreaterOrEqual(t, len(cur.EmotionalPatterns), len(prev.EmotionalPatterns), "emotions shrank at %d", i)
		assert.GreaterOrEqual(t, len(cur.Facts), len(prev.Facts), "facts shrank at %d", i)

		// Earlier entries are a stable prefix of later runs.
		assert.Equal(t, prev.Preferences, cur.Preferences[:len(prev.Preferences)])
		assert.Equal(t, prev.EmotionalPatterns, cur.EmotionalPatterns[:len(prev.EmotionalPatterns)])
		assert.Equal(t, prev.Facts, cur.Facts[:len(prev.Facts)])
		prev = cur
	}
}

func TestHeuristicExtractor_NoCrossContamination(t *testing.T) {
	for _, kw := range []string{"python", "docker", "tflite", "matlab"} {
		t.Run(kw, func(t *testing.T) {
			got := Default.Extract([]string{kw})
			assert.Len(t, got.Preferences, 1)
			assert.Empty(t, got.EmotionalPatterns)
			assert.Empty(t, got.Facts)
		})
	}
}

func TestNewHeuristicExtractor_InvalidPattern(t *testing.T) {
	lex := DefaultLexicon()
	lex.Facts = append(lex.Facts, FactPattern{Name: "broken", Type: FactName, Regex: `(`})

	_, err := NewHeuristicExtractor(lex)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestNewHeuristicExtractor_GroupOutOfRange(t *testing.T) {
	lex := Lexicon{Facts: []FactPattern{{Name: "nogroup", Type: FactName, Regex: `abc`, Group: 1}}}

	_, err := NewHeuristicExtractor(lex)
	require.Error(t, err)
}

func TestMemoryRecord_JSON(t *testing.T) {
	data, err := json.Marshal(Default.Extract(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"preferences":[],"emotional_patterns":[],"facts":[]}`, string(data))

	data, err = json.Marshal(Default.Extract([]string{"My name is Surya."}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"preferences": [],
		"emotional_patterns": [],
		"facts": [{"type": "name", "value": "Surya", "context": "My name is Surya."}]
	}`, string(data))
}

func TestMemoryRecord_IsEmpty(t *testing.T) {
	var nilRecord *MemoryRecord
	assert.True(t, nilRecord.IsEmpty())
	assert.True(t, NewMemoryRecord().IsEmpty())
	assert.False(t, Default.Extract([]string{"rust"}).IsEmpty())
}

func TestCapitalizeFirst(t *testing.T) {
	assert.Equal(t, "", capitalizeFirst(""))
	assert.Equal(t, "Alex", capitalizeFirst("alex"))
	assert.Equal(t, "A", capitalizeFirst("a"))
	assert.Equal(t, "42", capitalizeFirst("42"))
}
