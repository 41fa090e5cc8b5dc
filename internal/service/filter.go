package service

import (
	"regexp"
	"strings"
)

// ingredientPattern matches a whole word with an optional plural "s".
// RE2's \b only knows ASCII word characters, so the edges are spelled out over Unicode letters and digits.
func ingredientPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN_])` + regexp.QuoteMeta(term) + `s?(?:$|[^\pL\pN_])`)
}

// FilterCandidates keeps the candidates whose text mentions every ingredient term and whose
// attributes satisfy every nutrition predicate. A candidate with an unknown attribute fails
// any predicate on that attribute. Input order is preserved.
func FilterCandidates(candidates []Candidate, ingredients []string, filters NutritionFilters) []Candidate {
	var patterns []*regexp.Regexp
	for _, term := range ingredients {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		patterns = append(patterns, ingredientPattern(term))
	}
	predicates := filters.Predicates()

	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if matchesIngredients(c, patterns) && satisfiesPredicates(c, predicates) {
			out = append(out, c)
		}
	}
	return out
}

func matchesIngredients(c Candidate, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if !p.MatchString(c.Text) {
			return false
		}
	}
	return true
}

func satisfiesPredicates(c Candidate, predicates []NutritionPredicate) bool {
	for _, p := range predicates {
		v, ok := c.Attributes.Value(p.Attribute)
		if !ok || !p.Satisfies(v) {
			return false
		}
	}
	return true
}
