package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptRelatedTerms asks for words in a page related to a term.
	// The template expects %s placeholders for the term and the page text.
	PromptRelatedTerms = "related_terms"

	// PromptMatchingSentences asks for sentences matching a description.
	// The template expects %s placeholders for the description and the text.
	PromptMatchingSentences = "matching_sentences"
)

// PromptStoreAware is implemented by services whose prompts can be
// customised after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store. Without one, built-in
	// prompts are used.
	SetPromptStore(store PromptStore)
}
