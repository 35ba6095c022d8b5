// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Document: A highlightable document (one page or one frame)
//   - PageSource: Visible text and structural facts of a loaded page
//   - Chunker: Splits page text for sentence-mode requests
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully to literal matching:
//
//   - TermExpander: Related-term expansion for a query.
//   - SentenceMatcher: Sentence retrieval by description.
//   - LLMService: Language model access behind both of the above.
//   - TermCache: Cache for expansion results.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
