package service

import (
	"context"

	pgvector "github.com/pgvector/pgvector-go"
)

// RecipeSearcher runs a similarity search over the recipe collection.
// Hits are ordered best first and there are at most limit of them.
type RecipeSearcher interface {
	SearchRecipes(ctx context.Context, query string, limit int) ([]RecipeHit, error)
}

// ProductSearcher runs a similarity search over the grocery product catalog
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string, limit int) ([]ProductHit, error)
}

// EmbeddingServiceInterface turns text into an embedding vector
type EmbeddingServiceInterface interface {
	GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

// RelevanceScorer scores every document against the query with a cross-encoder.
// The returned slice is aligned with documents; higher means more relevant.
type RelevanceScorer interface {
	Score(ctx context.Context, query string, documents []string) ([]float64, error)
}

// TextGenerator sends a prompt to a language model and returns its answer
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// URLChecker reports whether a link still resolves
type URLChecker interface {
	IsAlive(ctx context.Context, url string) bool
}

// AttributeLookup loads structured nutrition attributes keyed by recipe id.
// Ids with no stored row are absent from the result.
type AttributeLookup interface {
	LookupAttributes(ctx context.Context, ids []string) (map[string]RecipeAttributes, error)
}

// ChoiceSessionStore keeps the ranked choices of the two-step flow between requests
type ChoiceSessionStore interface {
	SaveChoices(ctx context.Context, session *ChoiceSession) error
	GetChoices(ctx context.Context, id string) (*ChoiceSession, error)
	DeleteChoices(ctx context.Context, id string) error
}

// RecommendationServiceInterface is the surface consumed by the HTTP API and the CLI
type RecommendationServiceInterface interface {
	AnswerQuery(ctx context.Context, req QueryRequest) (*Recommendation, error)
	GetRecipeChoices(ctx context.Context, req QueryRequest) (*ChoiceSession, error)
	ProcessSelectedRecipe(ctx context.Context, sessionID string, index int) (*Recommendation, error)
}
