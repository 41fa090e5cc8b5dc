package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterFixture() []Candidate {
	return []Candidate{
		{ID: "1", Text: "Ingredients: 2 carrots, 1 onion", Attributes: RecipeAttributes{Sodium: ptr(120), Protein: ptr(5)}},
		{ID: "2", Text: "Ingredients: carrot puree, garlic", Attributes: RecipeAttributes{Sodium: ptr(650)}},
		{ID: "3", Text: "Ingredients: potato, onion", Attributes: RecipeAttributes{Protein: ptr(25)}},
		{ID: "4", Text: "Ingredients: carrots, garlic", Attributes: RecipeAttributes{Sodium: ptr(399), Protein: ptr(22)}},
	}
}

func ids(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestFilterCandidatesIngredients(t *testing.T) {
	candidates := filterFixture()

	t.Run("plural tolerant word match", func(t *testing.T) {
		out := FilterCandidates(candidates, []string{"carrot"}, nil)
		assert.Equal(t, []string{"1", "2", "4"}, ids(out))
	})

	t.Run("every term must match", func(t *testing.T) {
		out := FilterCandidates(candidates, []string{"carrot", "garlic"}, nil)
		assert.Equal(t, []string{"2", "4"}, ids(out))
	})

	t.Run("word boundary", func(t *testing.T) {
		out := FilterCandidates(candidates, []string{"pot"}, nil)
		assert.Empty(t, out)
	})

	t.Run("accented word edges", func(t *testing.T) {
		accented := []Candidate{
			{ID: "5", Text: "Ingredients:\n100g pâté\n1 cup açaí berries\nMethod: mix"},
			{ID: "6", Text: "Ingredients:\n2 pâtés en croûte\nMethod: bake"},
			{ID: "7", Text: "Ingredients:\nsuperpâtéx spread\nMethod: spread"},
		}
		assert.Equal(t, []string{"5", "6"}, ids(FilterCandidates(accented, []string{"pâté"}, nil)))
		assert.Equal(t, []string{"5"}, ids(FilterCandidates(accented, []string{"açaí"}, nil)))
		assert.Equal(t, []string{"5"}, ids(FilterCandidates(accented, []string{"PÂTÉ", "açaí"}, nil)))
	})

	t.Run("blank terms are ignored", func(t *testing.T) {
		out := FilterCandidates(candidates, []string{"", "  "}, nil)
		assert.Len(t, out, len(candidates))
	})

	t.Run("regex metacharacters are literal", func(t *testing.T) {
		out := FilterCandidates(candidates, []string{"on.on"}, nil)
		assert.Empty(t, out)
	})
}

func TestFilterCandidatesNutrition(t *testing.T) {
	candidates := filterFixture()

	t.Run("missing attribute is excluded", func(t *testing.T) {
		out := FilterCandidates(candidates, nil, DetectNutritionFilters("low sodium"))
		assert.Equal(t, []string{"1", "4"}, ids(out))
		for _, c := range out {
			v, ok := c.Attributes.Value(AttrSodium)
			assert.True(t, ok)
			assert.Less(t, v, 400.0)
		}
	})

	t.Run("predicates combine with AND", func(t *testing.T) {
		out := FilterCandidates(candidates, nil, DetectNutritionFilters("low sodium high protein"))
		assert.Equal(t, []string{"4"}, ids(out))
	})

	t.Run("nutrition and ingredients together", func(t *testing.T) {
		out := FilterCandidates(candidates, []string{"onion"}, DetectNutritionFilters("low sodium"))
		assert.Equal(t, []string{"1"}, ids(out))
	})
}

func TestFilterCandidatesSubsetAndFixedPoint(t *testing.T) {
	candidates := filterFixture()
	filters := DetectNutritionFilters("high protein")
	terms := []string{"garlic"}

	once := FilterCandidates(candidates, terms, filters)
	twice := FilterCandidates(once, terms, filters)

	assert.LessOrEqual(t, len(once), len(candidates))
	assert.Subset(t, ids(candidates), ids(once))
	assert.Equal(t, once, twice)
}

func TestFilterCandidatesEmptyInput(t *testing.T) {
	out := FilterCandidates(nil, []string{"carrot"}, DetectNutritionFilters("low fat"))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
