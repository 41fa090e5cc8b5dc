package service

import (
	"sort"
	"strings"
)

// DefaultBoostVocabulary is the set of phrases that promote exact matches
var DefaultBoostVocabulary = []string{"low carb", "halal", "iron rich", "low sodium"}

// Booster promotes candidates that share vocabulary phrases with the query
type Booster struct {
	vocabulary []string
}

// NewBooster creates a Booster over the given phrases, or the default vocabulary when none are given
func NewBooster(vocabulary ...string) *Booster {
	if len(vocabulary) == 0 {
		vocabulary = DefaultBoostVocabulary
	}
	phrases := make([]string, len(vocabulary))
	for i, p := range vocabulary {
		phrases[i] = strings.ToLower(p)
	}
	return &Booster{vocabulary: phrases}
}

// Boost counts, for every candidate, the phrases found in both the query and the candidate.
// When any candidate is boosted only boosted candidates are returned, ordered by boost and then
// score, both descending. When none is boosted the input passes through unchanged.
func (b *Booster) Boost(query string, candidates []Candidate) []Candidate {
	q := strings.ToLower(query)
	var active []string
	for _, phrase := range b.vocabulary {
		if strings.Contains(q, phrase) {
			active = append(active, phrase)
		}
	}

	if len(active) == 0 {
		return append([]Candidate(nil), candidates...)
	}

	boosted := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		text := strings.ToLower(c.Name + " " + c.Text)
		c.Boost = 0
		for _, phrase := range active {
			if strings.Contains(text, phrase) {
				c.Boost++
			}
		}
		if c.Boost > 0 {
			boosted = append(boosted, c)
		}
	}
	if len(boosted) == 0 {
		return append([]Candidate(nil), candidates...)
	}

	sort.SliceStable(boosted, func(i, j int) bool {
		if boosted[i].Boost != boosted[j].Boost {
			return boosted[i].Boost > boosted[j].Boost
		}
		return boosted[i].Score > boosted[j].Score
	})
	return boosted
}
