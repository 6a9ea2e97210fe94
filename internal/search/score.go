// Package search ranks plugin names against a free-text query using a
// tiered heuristic: exact matches always beat prefix matches, prefix
// matches always beat substring matches, and edit-distance fallbacks can
// never outrank any of them. The numeric constants are tunable; the
// cross-tier ordering is the contract.
package search

import (
	"regexp"
	"strings"
)

const (
	scoreExact        = 100
	scoreNoWhitespace = 95
	scorePrefix       = 85
	scoreWordBoundary = 75

	// Substring matches score in [50, 70]: base plus a position bonus for
	// matches near the start and a length-ratio bonus for queries close to
	// the candidate's full length.
	scoreSubstringBase = 50
	positionBonusMax   = 10
	lengthBonusMax     = 10

	// Edit-distance fallback scales into (0, 40], strictly below the
	// substring band. Similarity under the threshold is rejected outright.
	fuzzyBandMax   = 40
	fuzzyThreshold = 0.6
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Score rates how well candidate matches query. It is pure and total:
// any pair of strings yields a value in [0, 100], with 0 meaning no
// usable match. Matching is case-insensitive.
func Score(candidate, query string) float64 {
	c := strings.ToLower(candidate)
	q := strings.ToLower(query)
	if q == "" {
		return 0
	}

	if c == q {
		return scoreExact
	}
	if stripWhitespace(c) == stripWhitespace(q) {
		return scoreNoWhitespace
	}
	if strings.HasPrefix(c, q) {
		return scorePrefix
	}
	if matchesWordBoundary(c, q) {
		return scoreWordBoundary
	}
	if idx := strings.Index(c, q); idx >= 0 {
		position := positionBonusMax * (1 - float64(idx)/float64(len(c)))
		ratio := lengthBonusMax * (float64(len(q)) / float64(len(c)))
		return scoreSubstringBase + position + ratio
	}

	sim := similarity(c, q)
	if sim < fuzzyThreshold {
		return 0
	}
	return fuzzyBandMax * sim
}

func stripWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, "")
}

func matchesWordBoundary(candidate, query string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(query))
	if err != nil {
		return false
	}
	return re.MatchString(candidate)
}

// similarity is the normalized Levenshtein similarity: 1 minus the edit
// distance over the longer length.
func similarity(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes the edit distance between two strings with unit
// costs for insertion, deletion, and substitution. Single-row DP,
// O(min(m,n)) space.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for j := 1; j <= len(b); j++ {
		current := make([]int, len(a)+1)
		current[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			deletion := previous[i] + 1
			insertion := current[i-1] + 1
			substitution := previous[i-1] + cost

			current[i] = min(deletion, min(insertion, substitution))
		}

		previous = current
	}

	return previous[len(a)]
}
