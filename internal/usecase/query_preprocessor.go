package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sizzle/labelpress/internal/domain"
)

// maxQueryLength caps suggestion queries, in runes
const maxQueryLength = 100

// Compiled regex patterns for query preprocessing
var (
	// wildcard and quoting characters staff paste from spreadsheets
	queryNoisePattern = regexp.MustCompile(`[%*_"'\[\](){}]`)
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// normalizeQuery cleans a product-name search query: strips wildcard and
// quote characters, collapses whitespace and limits the length.
func normalizeQuery(q string) string {
	cleaned := queryNoisePattern.ReplaceAllString(q, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if runes := []rune(cleaned); len(runes) > maxQueryLength {
		cleaned = string(runes[:maxQueryLength])
		// Try to cut at word boundary
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}
	return cleaned
}

// suggestionScore ranks a name against the query: 3 exact, 2 prefix,
// 1 a word starts with the query, 0 anywhere else.
func suggestionScore(query, name string) int {
	q := strings.ToLower(query)
	n := strings.ToLower(name)
	switch {
	case n == q:
		return 3
	case strings.HasPrefix(n, q):
		return 2
	}
	for _, word := range strings.Fields(n) {
		if strings.HasPrefix(word, q) {
			return 1
		}
	}
	return 0
}

// rankSuggestions orders products by score, keeping store order within a score.
func rankSuggestions(query string, products []domain.ProductRecord) []domain.ProductRecord {
	sort.SliceStable(products, func(i, j int) bool {
		return suggestionScore(query, products[i].Name) > suggestionScore(query, products[j].Name)
	})
	return products
}
