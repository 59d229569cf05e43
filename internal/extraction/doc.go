// Package extraction builds a structured memory record from raw chat
// messages using deterministic pattern matching.
//
// Three kinds of entries are produced:
//   - Preferences: language, tool and topic keywords
//   - Emotional patterns: joy, sadness, anger and fear keywords
//   - Facts: email, phone, name, location and mentor captures
//
// Keywords match by substring against the lower-cased message, so "java"
// also matches inside "javascript". Fact patterns run against the original
// text, except the name patterns which run lower-cased and are capitalized
// on output. Nothing is deduplicated: overlapping or repeated matches all
// produce entries, in message order.
//
// # Usage
//
//	record := extraction.Default.Extract([]string{
//	    "I love Python and VSCode.",
//	    "My name is Surya.",
//	})
//	for _, p := range record.Preferences {
//	    fmt.Printf("%s: %s\n", p.Type, p.Value)
//	}
//
// A custom Lexicon can be passed to NewHeuristicExtractor to change the
// tables. Group and pattern order in the lexicon fixes output order.
package extraction
