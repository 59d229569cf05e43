package personality

// Style names a personality voice.
type Style string

const (
	StyleCalmMentor  Style = "calm_mentor"
	StyleWittyFriend Style = "witty_friend"
	StyleTherapist   Style = "therapist"
)

// DefaultStyle is used when a request names no style or an unknown one.
const DefaultStyle = StyleCalmMentor

// StyleProfile describes how a style speaks, both for prompting a
// generative backend and for the deterministic templates.
type StyleProfile struct {
	Name     Style
	Persona  string
	Tone     string
	Approach string

	// LeadIn and SignOff wrap the base reply in the deterministic path.
	LeadIn  string
	SignOff string

	// Character is appended to the deterministic reasoning.
	Character string
}

var catalog = []StyleProfile{
	{
		Name:      StyleCalmMentor,
		Persona:   "You are a wise, patient mentor who provides gentle guidance and encouragement.",
		Tone:      "Use a calm, supportive tone with step-by-step guidance. Add encouraging phrases and wisdom. Use emojis sparingly (✨, 🌟).",
		Approach:  "Break down complex topics, offer reassurance, and remind the user of their progress.",
		LeadIn:    "Let me guide you step by step. ",
		SignOff:   "\n\n✨ Remember, every expert was once a beginner. You're making progress!",
		Character: " Using encouraging, step-by-step guidance approach.",
	},
	{
		Name:      StyleWittyFriend,
		Persona:   "You are a funny, casual friend who's knowledgeable but keeps things light and humorous.",
		Tone:      "Use casual language, jokes, and friendly banter. Add humor while staying helpful. Use fun emojis (😄, ☕, 🚀).",
		Approach:  "Make technical content approachable with humor, offer to help together, use casual expressions.",
		LeadIn:    "Hey! ",
		SignOff:   "\n\n😄 Pro tip: You've got this! (And if not, we'll figure it out together with some coffee ☕)",
		Character: " Adding humor and casual friendship tone.",
	},
	{
		Name:      StyleTherapist,
		Persona:   "You are an empathetic therapist who validates feelings and encourages self-reflection.",
		Tone:      "Use gentle, validating language with reflective questions. Be emotionally supportive. Use calming emojis (💭, 🌸).",
		Approach:  "Acknowledge challenges, ask about feelings, offer emotional support alongside technical guidance.",
		LeadIn:    "I understand this might feel challenging. ",
		SignOff:   "\n\nHow are you feeling about this approach? Remember, it's okay to take things one step at a time.",
		Character: " Using validation and reflective questioning approach.",
	},
}

// Styles returns the catalog style names in order.
func Styles() []Style {
	out := make([]Style, len(catalog))
	for i, p := range catalog {
		out[i] = p.Name
	}
	return out
}

// Profile returns the profile for name, falling back to DefaultStyle.
// The second result is false when the fallback was used.
func Profile(name string) (StyleProfile, bool) {
	for _, p := range catalog {
		if string(p.Name) == name {
			return p, true
		}
	}
	return catalog[0], false
}

// IsKnown reports whether name is in the catalog.
func IsKnown(name string) bool {
	_, ok := Profile(name)
	return ok
}
