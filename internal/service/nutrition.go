package service

import (
	"fmt"
	"strings"
)

// Nutrition attribute names
const (
	AttrCalories      = "calories"
	AttrProtein       = "protein"
	AttrFat           = "fat"
	AttrCholesterol   = "cholesterol"
	AttrCarbohydrates = "carbohydrates"
	AttrFibre         = "fibre"
	AttrSodium        = "sodium"
)

// Operator compares an attribute value to a threshold
type Operator string

const (
	OpLessThan Operator = "<"
	OpAtLeast  Operator = ">="
)

// NutritionPredicate is a single numeric constraint on a recipe attribute
type NutritionPredicate struct {
	Attribute string   `json:"attribute"`
	Operator  Operator `json:"operator"`
	Threshold float64  `json:"threshold"`
}

// Satisfies reports whether value passes the predicate
func (p NutritionPredicate) Satisfies(value float64) bool {
	switch p.Operator {
	case OpLessThan:
		return value < p.Threshold
	case OpAtLeast:
		return value >= p.Threshold
	}
	return false
}

func (p NutritionPredicate) String() string {
	return fmt.Sprintf("%s %s %g", p.Attribute, p.Operator, p.Threshold)
}

// NutritionFilters maps an attribute to its predicate. A missing key means no constraint.
type NutritionFilters map[string]NutritionPredicate

type nutritionKeyword struct {
	keyword   string
	attribute string
	threshold float64
}

// nutritionKeywords is the order in which keywords are evaluated; a later
// keyword bound to the same attribute overwrites an earlier one.
var nutritionKeywords = []nutritionKeyword{
	{"calorie", AttrCalories, 250},
	{"protein", AttrProtein, 20},
	{"fat", AttrFat, 8},
	{"cholesterol", AttrCholesterol, 60},
	{"carbohydrate", AttrCarbohydrates, 40},
	{"fibre", AttrFibre, 5},
	{"fiber", AttrFibre, 5},
	{"sodium", AttrSodium, 400},
}

// DetectNutritionFilters turns "low X" / "high X" qualifiers in the query into predicates.
// "low" wins when both appear for the same keyword.
func DetectNutritionFilters(query string) NutritionFilters {
	q := strings.ToLower(query)
	filters := NutritionFilters{}
	for _, kw := range nutritionKeywords {
		switch {
		case strings.Contains(q, "low "+kw.keyword):
			filters[kw.attribute] = NutritionPredicate{Attribute: kw.attribute, Operator: OpLessThan, Threshold: kw.threshold}
		case strings.Contains(q, "high "+kw.keyword):
			filters[kw.attribute] = NutritionPredicate{Attribute: kw.attribute, Operator: OpAtLeast, Threshold: kw.threshold}
		}
	}
	return filters
}

// Predicates returns the filters in keyword evaluation order
func (f NutritionFilters) Predicates() []NutritionPredicate {
	var out []NutritionPredicate
	seen := map[string]bool{}
	for _, kw := range nutritionKeywords {
		if seen[kw.attribute] {
			continue
		}
		if p, ok := f[kw.attribute]; ok {
			out = append(out, p)
			seen[kw.attribute] = true
		}
	}
	return out
}
