package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	in := PromptInput{
		Query:         "cheap high protein tofu dish",
		Recipe:        Candidate{Name: "Braised Tofu", URL: "https://recipes.example/tofu", Text: tofuRecipe},
		NutritionInfo: "Energy 210kcal",
		Ingredients: []IngredientMatches{
			{Ingredient: "firm tofu", Products: []ProductHit{
				{Name: "Firm Tofu", Brand: "Unicurd", Price: 1.5, Size: "300g", URL: "https://shop.example/tofu"},
			}},
			{Ingredient: "spring onion", Products: []ProductHit{}},
		},
	}

	prompt := BuildPrompt(in)
	assert.Contains(t, prompt, `"**cheap high protein tofu dish**"`)
	assert.Contains(t, prompt, "- **URL:** https://recipes.example/tofu")
	assert.Contains(t, prompt, "**Firm tofu** (Price details provided):\n- Firm Tofu by Unicurd (Price: $1.50, Size: 300g, URL: https://shop.example/tofu)")
	assert.Contains(t, prompt, "**Spring onion** (Price details provided):")
	assert.Contains(t, prompt, "**Nutritional Information:**\nEnergy 210kcal")
	assert.True(t, strings.HasPrefix(prompt, "You are an expert culinary assistant."))
}

func TestPromptContexts(t *testing.T) {
	in := PromptInput{
		Recipe:        Candidate{Text: "recipe text"},
		NutritionInfo: NutritionNotAvailable,
		Ingredients: []IngredientMatches{
			{Ingredient: "rice", Products: []ProductHit{{Name: "Jasmine Rice", Brand: "Royal", Price: 8, Size: "5kg", URL: "N/A"}}},
		},
	}

	assert.Equal(t, []string{
		"Recipe Details: recipe text",
		"Nutritional Information: Not Available",
		"Ingredient Product: Jasmine Rice by Royal (Price: $8.00, Size: 5kg, URL: N/A)",
	}, PromptContexts(in))
}
