// Package similarity provides the normalized string similarity metric shared
// by validation confidence scoring and duplicate matching.
package similarity

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Threshold is the score above which two strings are treated as semantically
// equal. Shared by duplicate scoring and validation confidence; changing it
// changes both.
const Threshold = 0.8

// Score returns a normalized similarity in [0,1]. Comparison is
// case-insensitive and whitespace-trimmed. Identical strings score 1;
// a score of 0 means one string is empty and the other is not.
func Score(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.Distance(a, b, nil)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1 - float64(dist)/float64(maxLen)
}

// IsSimilar reports semantic equality: exact match, substring containment,
// or Score above Threshold.
func IsSimilar(a, b string) bool {
	na := normalize(a)
	nb := normalize(b)
	if na == nb {
		return true
	}
	if na != "" && nb != "" && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return true
	}
	return Score(a, b) > Threshold
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
