package driving

import "github.com/custodia-labs/findable/internal/core/domain"

// AnalyzerService reports on page content.
type AnalyzerService interface {
	// Facts returns word count, reading time, headings, links and images.
	Facts() domain.PageFacts

	// Keywords returns the most frequent words longer than three letters.
	Keywords(limit int) domain.KeywordReport
}
