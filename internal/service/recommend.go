package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/metrics"
)

// QueryRequest is a free-text culinary query with optional required ingredients
type QueryRequest struct {
	Query       string   `json:"query"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// Recommendation is the full answer to a query
type Recommendation struct {
	Query             string               `json:"query"`
	SelectedRecipe    Candidate            `json:"selected_recipe"`
	Alternatives      []Candidate          `json:"ranked_alternatives"`
	NutritionFilters  []NutritionPredicate `json:"nutrition_filters"`
	NutritionInfo     string               `json:"nutrition_info"`
	IngredientMatches []IngredientMatches  `json:"ingredient_matches"`
	Answer            string               `json:"narrative_response"`
	Contexts          []string             `json:"contexts"`
}

// PipelineOptions are the tunables of the recommendation pipeline
type PipelineOptions struct {
	CandidateLimit     int
	RerankTopK         int
	ChoiceCount        int
	ProductSearchLimit int
	ProductMatches     int
	MatchWorkers       int
}

// DefaultPipelineOptions returns the stock pipeline tunables
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		CandidateLimit:     30,
		RerankTopK:         20,
		ChoiceCount:        3,
		ProductSearchLimit: 10,
		ProductMatches:     3,
		MatchWorkers:       4,
	}
}

// Dependencies are the external collaborators of the pipeline.
// Attributes, URLChecker and Sessions are optional.
type Dependencies struct {
	Recipes    RecipeSearcher
	Attributes AttributeLookup
	Products   ProductSearcher
	Scorer     RelevanceScorer
	Generator  TextGenerator
	URLChecker URLChecker
	Sessions   ChoiceSessionStore
	Booster    *Booster
}

// RecommendationService runs retrieval, filtering, reranking, boosting, ingredient matching
// and answer generation for a query
type RecommendationService struct {
	candidates *CandidateSource
	reranker   *Reranker
	booster    *Booster
	matcher    *IngredientMatcher
	generator  TextGenerator
	checker    URLChecker
	sessions   ChoiceSessionStore
	opts       PipelineOptions
}

// NewRecommendationService creates a new RecommendationService instance
func NewRecommendationService(deps Dependencies, opts PipelineOptions) *RecommendationService {
	defaults := DefaultPipelineOptions()
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = defaults.CandidateLimit
	}
	if opts.RerankTopK <= 0 {
		opts.RerankTopK = defaults.RerankTopK
	}
	if opts.ChoiceCount <= 0 {
		opts.ChoiceCount = defaults.ChoiceCount
	}
	if opts.ProductMatches <= 0 {
		opts.ProductMatches = defaults.ProductMatches
	}

	booster := deps.Booster
	if booster == nil {
		booster = NewBooster()
	}

	return &RecommendationService{
		candidates: NewCandidateSource(deps.Recipes, deps.Attributes),
		reranker:   NewReranker(deps.Scorer),
		booster:    booster,
		matcher: NewIngredientMatcher(deps.Products, deps.URLChecker, MatcherOptions{
			SearchLimit: opts.ProductSearchLimit,
			Workers:     opts.MatchWorkers,
		}),
		generator: deps.Generator,
		checker:   deps.URLChecker,
		sessions:  deps.Sessions,
		opts:      opts,
	}
}

// RankRecipes runs the retrieval half of the pipeline and returns every ranked survivor
func (s *RecommendationService) RankRecipes(ctx context.Context, req QueryRequest) ([]Candidate, NutritionFilters, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, nil, ErrInvalidQuery
	}
	log := logging.Ctx(ctx)

	filters := DetectNutritionFilters(query)
	if len(filters) > 0 {
		preds := make([]string, 0, len(filters))
		for _, p := range filters.Predicates() {
			preds = append(preds, p.String())
		}
		log.Debug().Strs("filters", preds).Msg("detected nutrition filters")
	}

	candidates, err := s.candidates.Candidates(ctx, query, s.opts.CandidateLimit)
	if err != nil {
		return nil, nil, err
	}
	metrics.PipelineCandidates.WithLabelValues("retrieved").Observe(float64(len(candidates)))

	filtered := FilterCandidates(candidates, req.Ingredients, filters)
	metrics.PipelineCandidates.WithLabelValues("filtered").Observe(float64(len(filtered)))
	log.Debug().Int("retrieved", len(candidates)).Int("filtered", len(filtered)).Msg("applied attribute filters")
	if len(filtered) == 0 {
		return nil, filters, ErrNoRecipesFound
	}

	reranked, err := s.reranker.Rerank(ctx, query, filtered, s.opts.RerankTopK)
	if err != nil {
		return nil, nil, err
	}
	metrics.PipelineCandidates.WithLabelValues("reranked").Observe(float64(len(reranked)))

	boosted := s.booster.Boost(query, reranked)
	metrics.PipelineCandidates.WithLabelValues("boosted").Observe(float64(len(boosted)))
	if len(boosted) == 0 {
		return nil, filters, ErrNoRecipesFound
	}
	return boosted, filters, nil
}

// GetRecipeChoices ranks recipes for the query and stores the top choices for a later selection.
// Without a session store the returned session has no id.
func (s *RecommendationService) GetRecipeChoices(ctx context.Context, req QueryRequest) (*ChoiceSession, error) {
	ranked, _, err := s.RankRecipes(ctx, req)
	if err != nil {
		recordOutcome(err)
		return nil, err
	}

	session := &ChoiceSession{
		Query:       strings.TrimSpace(req.Query),
		Ingredients: req.Ingredients,
		Choices:     topChoices(ranked, s.opts.ChoiceCount),
	}
	if s.sessions != nil {
		if err := s.sessions.SaveChoices(ctx, session); err != nil {
			err = dependencyError(DepChoiceStore, err)
			recordOutcome(err)
			return nil, err
		}
	}

	metrics.PipelineOutcomes.WithLabelValues("choices").Inc()
	return session, nil
}

// AnswerQuery answers a query with its best recipe in one step
func (s *RecommendationService) AnswerQuery(ctx context.Context, req QueryRequest) (*Recommendation, error) {
	ranked, filters, err := s.RankRecipes(ctx, req)
	if err != nil {
		recordOutcome(err)
		return nil, err
	}

	choices := topChoices(ranked, s.opts.ChoiceCount)
	rec, err := s.process(ctx, strings.TrimSpace(req.Query), choices[0], choices[1:])
	if err != nil {
		recordOutcome(err)
		return nil, err
	}
	rec.NutritionFilters = filters.Predicates()
	recordOutcome(nil)
	return rec, nil
}

// ProcessSelectedRecipe answers the query of a stored session with the chosen recipe
func (s *RecommendationService) ProcessSelectedRecipe(ctx context.Context, sessionID string, index int) (*Recommendation, error) {
	if s.sessions == nil {
		return nil, ErrSessionNotFound
	}
	session, err := s.sessions.GetChoices(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, dependencyError(DepChoiceStore, err)
	}
	if index < 0 || index >= len(session.Choices) {
		return nil, ErrInvalidChoice
	}

	alternatives := make([]Candidate, 0, len(session.Choices)-1)
	for i, c := range session.Choices {
		if i != index {
			alternatives = append(alternatives, c)
		}
	}

	rec, err := s.process(ctx, session.Query, session.Choices[index], alternatives)
	if err != nil {
		recordOutcome(err)
		return nil, err
	}
	rec.NutritionFilters = DetectNutritionFilters(session.Query).Predicates()
	recordOutcome(nil)
	return rec, nil
}

func (s *RecommendationService) process(ctx context.Context, query string, selected Candidate, alternatives []Candidate) (*Recommendation, error) {
	log := logging.Ctx(ctx)

	if s.checker != nil && HasLink(selected.URL) && !s.checker.IsAlive(ctx, selected.URL) {
		log.Debug().Str("url", selected.URL).Msg("dropping dead recipe link")
		selected.URL = ""
	}

	nutrition := ExtractNutritionInfo(selected.Text)
	terms := ExtractIngredients(selected.Text)
	matches := s.matcher.MatchAll(ctx, terms, s.opts.ProductMatches)
	log.Debug().Str("recipe", selected.ID).Int("ingredients", len(terms)).Msg("matched ingredients to products")

	in := PromptInput{
		Query:         query,
		Recipe:        selected,
		NutritionInfo: nutrition,
		Ingredients:   matches,
	}
	answer, err := s.generator.GenerateText(ctx, BuildPrompt(in))
	if err != nil {
		return nil, dependencyError(DepTextGeneration, fmt.Errorf("failed to generate answer: %w", err))
	}

	if matches == nil {
		matches = []IngredientMatches{}
	}
	return &Recommendation{
		Query:             query,
		SelectedRecipe:    selected,
		Alternatives:      alternatives,
		NutritionInfo:     nutrition,
		IngredientMatches: matches,
		Answer:            answer,
		Contexts:          PromptContexts(in),
	}, nil
}

func topChoices(ranked []Candidate, n int) []Candidate {
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]Candidate, len(ranked))
	copy(out, ranked)
	return out
}

func recordOutcome(err error) {
	switch {
	case err == nil:
		metrics.PipelineOutcomes.WithLabelValues("answered").Inc()
	case errors.Is(err, ErrNoRecipesFound):
		metrics.PipelineOutcomes.WithLabelValues("no_recipes").Inc()
	default:
		if dep, ok := FailedDependency(err); ok {
			metrics.DependencyFailures.WithLabelValues(dep).Inc()
			metrics.PipelineOutcomes.WithLabelValues("dependency_error").Inc()
			logging.Error().Err(err).Str("dependency", dep).Msg("recommendation aborted")
			return
		}
		metrics.PipelineOutcomes.WithLabelValues("error").Inc()
	}
}
