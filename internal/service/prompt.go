package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PromptInput is everything the narrative prompt is built from
type PromptInput struct {
	Query         string
	Recipe        Candidate
	NutritionInfo string
	Ingredients   []IngredientMatches
}

const promptTemplate = `You are an expert culinary assistant.

A user is seeking recipe suggestions for the query: "**%s**".
In addition to providing a detailed recipe summary, your task is to help the user make an affordable, healthy purchase by:
1. Analyzing the available ingredient options and suggesting suitable ingredient substitutions clearly if any.
2. For each necessary ingredient, among the multiple product options provided, identifying the three most relevant and cost-effective products (based on price and quantity) including their price, source URL and quantity.
3. Providing nutritional information clearly based on the provided nutritional data.
4. Optionally estimating the total cost of the required ingredients.

Below is the retrieved recipe and a list of grocery products with their price and source URL information. Please include the source URL for the recipe and each product option in your response.

---

**Retrieved Recipe:**
- **Recipe Name:** %s
- **URL:** %s
- **Details:**
%s

**Nutritional Information:**
%s

---

**Ingredient Products:**
%s

---

Please provide your response in four sections:
1. **Recipe Summary**: Summarize the key steps and ingredients in a concise paragraph, including the recipe source URL.
2. **Affordable Ingredient Recommendations**: For each necessary ingredient, identify the most relevant and cost-effective products, including their price, source URL and quantity.
3. **Nutritional Analysis**: Analyze the nutritional information of the recipe and its ingredients and mention who might benefit from this dish.
4. **Cost Estimate**:
- Estimate the total cost to prepare this recipe using the selected products, preferring relevance over cost efficiency.
- For each chosen product include its price, quantity purchased and URL.
- Determine how many full servings the purchased quantities make and give the cost per serving.
- If a single ingredient limits the recipe to one serving, say whether buying more of it lowers the cost per serving.
`

// BuildPrompt renders the prompt sent to the text generator
func BuildPrompt(in PromptInput) string {
	var products strings.Builder
	for _, m := range in.Ingredients {
		fmt.Fprintf(&products, "\n**%s** (Price details provided):\n", capitalize(m.Ingredient))
		for _, p := range m.Products {
			products.WriteString("- " + ProductLine(p) + "\n")
		}
	}

	return fmt.Sprintf(promptTemplate,
		in.Query,
		in.Recipe.Name,
		linkOrNA(in.Recipe.URL),
		in.Recipe.Text,
		in.NutritionInfo,
		products.String(),
	)
}

// PromptContexts lists the context passages the prompt was built from
func PromptContexts(in PromptInput) []string {
	contexts := []string{
		"Recipe Details: " + in.Recipe.Text,
		"Nutritional Information: " + in.NutritionInfo,
	}
	for _, m := range in.Ingredients {
		for _, p := range m.Products {
			contexts = append(contexts, "Ingredient Product: "+ProductLine(p))
		}
	}
	return contexts
}

// ProductLine formats one product the way it appears in the prompt
func ProductLine(p ProductHit) string {
	return fmt.Sprintf("%s by %s (Price: $%.2f, Size: %s, URL: %s)", p.Name, p.Brand, p.Price, p.Size, linkOrNA(p.URL))
}

func linkOrNA(url string) string {
	if !HasLink(url) {
		return "N/A"
	}
	return url
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
