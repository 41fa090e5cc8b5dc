package service

import (
	"context"
	"fmt"

	"github.com/pageza/ragcipe/backend/internal/logging"
)

// RecipeAttributes are the structured nutrition columns of a recipe. Nil means unknown.
type RecipeAttributes struct {
	Calories      *float64 `json:"calories,omitempty"`
	Protein       *float64 `json:"protein,omitempty"`
	Fat           *float64 `json:"fat,omitempty"`
	Cholesterol   *float64 `json:"cholesterol,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates,omitempty"`
	Fibre         *float64 `json:"fibre,omitempty"`
	Sodium        *float64 `json:"sodium,omitempty"`
}

// Value returns the named attribute and whether it is known
func (a RecipeAttributes) Value(attribute string) (float64, bool) {
	var v *float64
	switch attribute {
	case AttrCalories:
		v = a.Calories
	case AttrProtein:
		v = a.Protein
	case AttrFat:
		v = a.Fat
	case AttrCholesterol:
		v = a.Cholesterol
	case AttrCarbohydrates:
		v = a.Carbohydrates
	case AttrFibre:
		v = a.Fibre
	case AttrSodium:
		v = a.Sodium
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// RecipeHit is one result of a recipe similarity search.
// Attributes is nil when the index does not carry nutrition columns inline.
type RecipeHit struct {
	ID         string
	Name       string
	URL        string
	Document   string
	Attributes *RecipeAttributes
	Distance   float64
}

// ProductHit is one result of a product catalog search. Smaller distance is closer.
type ProductHit struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Size     string  `json:"size"`
	URL      string  `json:"url"`
	Distance float64 `json:"distance"`
}

// Candidate is a recipe under consideration for a single query
type Candidate struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	URL        string           `json:"url"`
	Text       string           `json:"text"`
	Attributes RecipeAttributes `json:"attributes"`
	// Score is set by the reranker
	Score float64 `json:"score"`
	// Boost is set by the booster
	Boost int `json:"boost"`
}

// CandidateSource retrieves candidates by semantic similarity and joins in their attributes
type CandidateSource struct {
	searcher   RecipeSearcher
	attributes AttributeLookup
}

// NewCandidateSource creates a new CandidateSource instance. attributes may be nil when
// the searcher always returns attributes inline.
func NewCandidateSource(searcher RecipeSearcher, attributes AttributeLookup) *CandidateSource {
	return &CandidateSource{
		searcher:   searcher,
		attributes: attributes,
	}
}

// Candidates returns at most limit candidates ordered best first.
// A search failure is fatal: an empty list would be read as "no matches".
func (s *CandidateSource) Candidates(ctx context.Context, query string, limit int) ([]Candidate, error) {
	hits, err := s.searcher.SearchRecipes(ctx, query, limit)
	if err != nil {
		return nil, dependencyError(DepRecipeSearch, fmt.Errorf("failed to search recipes: %w", err))
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}

	var missing []string
	for _, hit := range hits {
		if hit.Attributes == nil {
			missing = append(missing, hit.ID)
		}
	}

	var looked map[string]RecipeAttributes
	if len(missing) > 0 && s.attributes != nil {
		looked, err = s.attributes.LookupAttributes(ctx, missing)
		if err != nil {
			return nil, dependencyError(DepRecipeStore, fmt.Errorf("failed to look up recipe attributes: %w", err))
		}
	}

	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		c := Candidate{
			ID:   hit.ID,
			Name: hit.Name,
			URL:  hit.URL,
			Text: hit.Document,
		}
		if hit.Attributes != nil {
			c.Attributes = *hit.Attributes
		} else {
			c.Attributes = looked[hit.ID]
		}
		candidates = append(candidates, c)
	}

	logging.Ctx(ctx).Debug().
		Int("hits", len(hits)).
		Int("looked_up", len(missing)).
		Msg("retrieved recipe candidates")
	return candidates, nil
}
