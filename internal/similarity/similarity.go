// Package similarity provides the fuzzy string comparison used by entity
// matching.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Similarity returns a score in [0,1] comparing a and b after lowercasing and
// trimming both. Empty input scores 0, equal input scores 1, anything else is
// 1 - editDistance / max(len(a), len(b)) measured in runes.
func Similarity(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	return 1 - float64(Distance(a, b))/float64(longest)
}

// Distance is the Levenshtein distance between a and b with unit cost for
// insertion, deletion and substitution.
func Distance(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}

// NormalizePhone strips every non-digit so phone numbers can be compared for
// exact equality. It is not a fuzzy comparison.
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
