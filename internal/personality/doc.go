// Package personality rewrites a technical reply in one of a fixed set of
// voices, optionally informed by an extracted memory record.
//
// The Engine prefers a generative backend and falls back to deterministic
// templates whenever the backend is missing or fails, so Transform and
// Compare always produce a result.
//
// # Styles
//
// The catalog is ordered and fixed:
//
//	calm_mentor   patient step-by-step guidance (default)
//	witty_friend  casual, humorous delivery
//	therapist     validating, reflective delivery
//
// Unknown styles are treated as calm_mentor.
//
// # Secret handling
//
// Text sent to a generative backend passes through a secrets.Redactor
// first. Returned original replies are never altered.
package personality
