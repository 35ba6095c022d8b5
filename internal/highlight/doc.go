// Package highlight marks occurrences of weighted terms inside a parsed HTML
// document and lets callers navigate between them.
//
// A highlighting pass compiles the terms of a domain.TermGroup into one
// case-insensitive pattern (Matcher), wraps every match found in visible
// text in a <mark> element (Mutator), and records the resulting markers in
// document order (Registry). Clearing a Registry unwraps every marker and
// merges the split text back together, restoring the original text content.
//
// # Exclusions
//
// Subtrees rejected by the Policy are never scanned: the application's own
// UI root, script/style/noscript content, and existing <mark> elements. The
// last rule is what keeps the semantic pass from re-wrapping text that the
// primary pass already marked.
//
// # Concurrency
//
// A Registry serialises its operations with a mutex, so navigation never
// observes a half-finished pass. The document tree itself must not be
// mutated by other goroutines while a pass runs.
package highlight
