package extraction

// PreferenceType classifies a detected user preference.
type PreferenceType string

const (
	PreferenceLanguage PreferenceType = "language"
	PreferenceTools    PreferenceType = "tools"
	PreferenceTopic    PreferenceType = "topic"
)

// Emotion is one of the emotion classes recognised by the lexicon.
type Emotion string

const (
	EmotionJoy     Emotion = "joy"
	EmotionSadness Emotion = "sadness"
	EmotionAnger   Emotion = "anger"
	EmotionFear    Emotion = "fear"
)

// FactType classifies a personal fact.
type FactType string

const (
	FactEmail    FactType = "email"
	FactPhone    FactType = "phone"
	FactName     FactType = "name"
	FactLocation FactType = "location"
	FactMentor   FactType = "mentor"

	// FactPersonalInfo is reserved for context summarization. The heuristic
	// extractor never emits it.
	FactPersonalInfo FactType = "personal_info"
)

// Preference is a keyword hit from one of the preference categories.
type Preference struct {
	Type    PreferenceType `json:"type"`
	Value   string         `json:"value"`
	Context string         `json:"context"` // Message that triggered the match
}

// EmotionalPattern is a keyword hit from one of the emotion lexicons.
type EmotionalPattern struct {
	Emotion Emotion `json:"emotion"`
	Trigger string  `json:"trigger"`
	Context string  `json:"context"`
}

// Fact is a value captured by one of the fact patterns.
type Fact struct {
	Type    FactType `json:"type"`
	Value   string   `json:"value"`
	Context string   `json:"context"`
}

// MemoryRecord is the structured output of a single extraction run.
//
// Entries are appended in scan order and never merged or removed, so the
// same keyword seen in two messages produces two entries.
type MemoryRecord struct {
	Preferences       []Preference       `json:"preferences"`
	EmotionalPatterns []EmotionalPattern `json:"emotional_patterns"`
	Facts             []Fact             `json:"facts"`
}

// NewMemoryRecord returns an empty record whose sequences encode as [] rather than null.
func NewMemoryRecord() *MemoryRecord {
	return &MemoryRecord{
		Preferences:       make([]Preference, 0),
		EmotionalPatterns: make([]EmotionalPattern, 0),
		Facts:             make([]Fact, 0),
	}
}

// IsEmpty reports whether the record holds no entries at all.
func (m *MemoryRecord) IsEmpty() bool {
	if m == nil {
		return true
	}
	return len(m.Preferences) == 0 && len(m.EmotionalPatterns) == 0 && len(m.Facts) == 0
}

// Extractor turns raw chat messages into a memory record.
type Extractor interface {
	// Extract scans messages in order. It never fails.
	Extract(messages []string) *MemoryRecord
}
