package extraction

// KeywordGroup is a named list of lower-case keywords matched by substring.
type KeywordGroup struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// FactPattern captures a fact value with a regular expression.
type FactPattern struct {
	Name  string   `json:"name"`
	Type  FactType `json:"type"`
	Regex string   `json:"regex"`

	// Group is the capture group holding the value; 0 uses the whole match.
	Group int `json:"group"`

	// Lower runs the pattern against the lower-cased message. Captures are
	// then emitted with an upper-cased first letter.
	Lower bool `json:"lower"`
}

// Lexicon holds every table the heuristic extractor scans with. Group and
// pattern order is significant: it fixes the order of emitted entries.
type Lexicon struct {
	Preferences []KeywordGroup `json:"preferences"`
	Emotions    []KeywordGroup `json:"emotions"`
	Facts       []FactPattern  `json:"facts"`
}

const capitalizedRun = `[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`

// DefaultLexicon returns the built-in keyword tables and fact patterns.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Preferences: []KeywordGroup{
			{Name: string(PreferenceLanguage), Keywords: []string{"python", "javascript", "java", "c++", "matlab", "rust"}},
			{Name: string(PreferenceTools), Keywords: []string{"vscode", "colab", "git", "github", "obsidian", "docker", "fastapi"}},
			{Name: string(PreferenceTopic), Keywords: []string{"cybersecurity", "diabetic retinopathy", "yolov8", "workflow", "threatnet", "tflite"}},
		},
		Emotions: []KeywordGroup{
			{Name: string(EmotionJoy), Keywords: []string{"great", "awesome", "good", "thanks", "yay", "happy"}},
			{Name: string(EmotionSadness), Keywords: []string{"sad", "unfortunately", "regret", "sorry", "depressed", "down"}},
			{Name: string(EmotionAnger), Keywords: []string{"angry", "frustrat", "mad", "annoyed", "furious"}},
			{Name: string(EmotionFear), Keywords: []string{"worried", "scared", "afraid", "concerned"}},
		},
		Facts: []FactPattern{
			{Name: "email", Type: FactEmail, Regex: `\b[\w.-]+@[\w.-]+\.\w+\b`},
			{Name: "phone", Type: FactPhone, Regex: `\b\d{10}\b`},

			{Name: "my_name_is", Type: FactName, Regex: `my name is (\w+)`, Group: 1, Lower: true},
			{Name: "i_m", Type: FactName, Regex: `i'm (\w+)`, Group: 1, Lower: true},
			{Name: "i_am", Type: FactName, Regex: `i am (\w+)`, Group: 1, Lower: true},

			{Name: "in", Type: FactLocation, Regex: `in (` + capitalizedRun + `)`, Group: 1},
			{Name: "from", Type: FactLocation, Regex: `from (` + capitalizedRun + `)`, Group: 1},
			{Name: "living_in", Type: FactLocation, Regex: `living in (` + capitalizedRun + `)`, Group: 1},

			{Name: "mentor", Type: FactMentor, Regex: `my mentor is ([A-Z][a-z]+(?:\s+[A-Z]\.?\s*[A-Z][a-z]+)*)`, Group: 1},
		},
	}
}
