package search

import "sort"

// Ranked pairs a candidate's position in the input slice with its score.
// Input order is the tiebreaker, so equal scores keep their relative order.
type Ranked struct {
	Index int
	Score float64
}

// Rank scores every name against query, drops results below threshold,
// and returns the rest ordered by descending score. An empty query or an
// empty name list yields an empty result.
func Rank(names []string, query string, threshold float64) []Ranked {
	if len(names) == 0 || query == "" {
		return nil
	}

	ranked := make([]Ranked, 0, len(names))
	for i, name := range names {
		score := Score(name, query)
		if score < threshold {
			continue
		}
		ranked = append(ranked, Ranked{Index: i, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
