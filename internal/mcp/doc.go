// Package mcp exposes memory extraction and personality rewriting as MCP
// tools served over stdio.
//
// Tools:
//
//	memory_extract         messages -> memory record
//	personality_transform  messages, style, sample_reply -> styled reply
//	personality_compare    messages, sample_reply -> one reply per style
//	secrets_scrub          content -> content with secrets redacted
package mcp
