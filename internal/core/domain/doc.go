// Package domain defines the core business entities for Findable.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - WeightedTerm: A term and its relevance score
//   - TermGroup: The categorised term set driving one highlighting pass
//   - MarkerCategory: The closed set of marker kinds (original, semantic, sentence)
//   - Position: A navigation cursor paired with the total marker count
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
