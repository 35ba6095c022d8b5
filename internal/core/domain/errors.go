package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPattern indicates the term set could not be compiled into a pattern.
	// Terms are escaped before compilation, so this signals a defect rather than bad input.
	ErrInvalidPattern = errors.New("invalid match pattern")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Related-term expansion and description matching are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrPageUnavailable indicates no page is loaded for the operation.
	ErrPageUnavailable = errors.New("page unavailable")

	// ErrUnsupportedSource indicates a page source that cannot be loaded.
	ErrUnsupportedSource = errors.New("unsupported page source")

	// ErrRateLimited indicates the upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
