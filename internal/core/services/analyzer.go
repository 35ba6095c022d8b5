package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
	"github.com/custodia-labs/findable/internal/core/ports/driving"
)

// Ensure AnalyzerService implements the interface.
var _ driving.AnalyzerService = (*AnalyzerService)(nil)

// DefaultKeywordLimit is the number of keywords reported when no limit is given.
const DefaultKeywordLimit = 10

// minKeywordLength excludes short function words from keyword counts.
const minKeywordLength = 4

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// AnalyzerService reports on the content of a loaded page.
type AnalyzerService struct {
	page driven.PageSource
}

// NewAnalyzerService creates an analyzer for page.
func NewAnalyzerService(page driven.PageSource) *AnalyzerService {
	return &AnalyzerService{page: page}
}

// Facts returns structural facts about the page.
func (s *AnalyzerService) Facts() domain.PageFacts {
	return s.page.Facts()
}

// Keywords counts word frequency and returns the top words, most frequent
// first. Ties are broken alphabetically so reports are stable.
func (s *AnalyzerService) Keywords(limit int) domain.KeywordReport {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	text := nonWord.ReplaceAllString(strings.ToLower(s.page.Text()), "")
	freq := make(map[string]int)
	total := 0
	for _, w := range strings.Fields(text) {
		if len([]rune(w)) < minKeywordLength {
			continue
		}
		freq[w]++
		total++
	}

	keywords := make([]domain.Keyword, 0, len(freq))
	for w, c := range freq {
		keywords = append(keywords, domain.Keyword{Word: w, Count: c})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Count != keywords[j].Count {
			return keywords[i].Count > keywords[j].Count
		}
		return keywords[i].Word < keywords[j].Word
	})
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}

	return domain.KeywordReport{
		Keywords:    keywords,
		TotalWords:  total,
		UniqueWords: len(freq),
	}
}
