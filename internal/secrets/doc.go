// Package secrets redacts credentials from text before it is sent to a
// remote generative backend.
//
// Rules are regular expressions with optional keyword prefilters. Matches
// are merged when they overlap and replaced with a fixed marker; findings
// record the rule and position but never the matched value.
package secrets
