package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/metrics"
)

var (
	ingredientBlock   = regexp.MustCompile(`(?is)Ingredients:(.*?)(Method|Nutritional Info)`)
	quantityNoise     = regexp.MustCompile(`[\d\*\(\),]+`)
	nutritionInfoMark = "Nutritional Info:"
)

// NutritionNotAvailable is used when a recipe text carries no nutrition block
const NutritionNotAvailable = "Not Available"

// ExtractIngredients pulls normalized ingredient terms out of a recipe text.
// Terms are lowercased, stripped of quantities and punctuation, and deduplicated in first-seen order.
func ExtractIngredients(recipeText string) []string {
	m := ingredientBlock.FindStringSubmatch(recipeText)
	if m == nil {
		return nil
	}

	var terms []string
	seen := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		term := strings.ToLower(strings.TrimSpace(quantityNoise.ReplaceAllString(line, "")))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}

// ExtractNutritionInfo returns the paragraph following the last "Nutritional Info:" marker
func ExtractNutritionInfo(recipeText string) string {
	idx := strings.LastIndex(recipeText, nutritionInfoMark)
	if idx < 0 {
		return NutritionNotAvailable
	}
	block := strings.TrimSpace(recipeText[idx+len(nutritionInfoMark):])
	if end := strings.Index(block, "\n\n"); end >= 0 {
		block = block[:end]
	}
	return strings.TrimSpace(block)
}

// IngredientMatches are the catalog products found for one ingredient term
type IngredientMatches struct {
	Ingredient string       `json:"ingredient"`
	Products   []ProductHit `json:"products"`
}

// MatcherOptions tunes an IngredientMatcher
type MatcherOptions struct {
	// SearchLimit is how many products are fetched before the closest are kept
	SearchLimit int
	// Workers bounds how many terms are matched concurrently
	Workers int
	// BreakerThreshold is the number of consecutive search failures that opens the breaker
	BreakerThreshold uint32
	// BreakerTimeout is how long the breaker stays open
	BreakerTimeout time.Duration
}

// IngredientMatcher resolves ingredient terms to grocery products
type IngredientMatcher struct {
	products    ProductSearcher
	checker     URLChecker
	searchLimit int
	workers     int
	breaker     *gobreaker.CircuitBreaker[[]ProductHit]
}

// NewIngredientMatcher creates a new IngredientMatcher instance. checker may be nil to keep every link.
func NewIngredientMatcher(products ProductSearcher, checker URLChecker, opts MatcherOptions) *IngredientMatcher {
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 10
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.BreakerThreshold == 0 {
		opts.BreakerThreshold = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	threshold := opts.BreakerThreshold
	breaker := gobreaker.NewCircuitBreaker[[]ProductHit](gobreaker.Settings{
		Name:    "product-search",
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return &IngredientMatcher{
		products:    products,
		checker:     checker,
		searchLimit: opts.SearchLimit,
		workers:     opts.Workers,
		breaker:     breaker,
	}
}

// Match returns up to desired products for term, closest first.
// A blank term returns nothing without searching, and a failed search degrades to no matches.
func (m *IngredientMatcher) Match(ctx context.Context, term string, desired int) []ProductHit {
	if strings.TrimSpace(term) == "" || desired <= 0 {
		return []ProductHit{}
	}

	hits, err := m.breaker.Execute(func() ([]ProductHit, error) {
		return m.products.SearchProducts(ctx, term, m.searchLimit)
	})
	if err != nil {
		metrics.ProductSearchFailures.Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("ingredient", term).Msg("product search failed")
		return []ProductHit{}
	}

	sorted := make([]ProductHit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})
	if len(sorted) > desired {
		sorted = sorted[:desired]
	}
	return sorted
}

// MatchAll matches every term on a bounded pool and drops products whose links are dead.
// Results follow the order of terms.
func (m *IngredientMatcher) MatchAll(ctx context.Context, terms []string, desired int) []IngredientMatches {
	results := make([]IngredientMatches, len(terms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, term := range terms {
		g.Go(func() error {
			products := m.Match(gctx, term, desired)
			results[i] = IngredientMatches{
				Ingredient: term,
				Products:   m.liveProducts(gctx, products),
			}
			return nil
		})
	}
	// Workers never return errors; failures degrade per term
	_ = g.Wait()

	return results
}

func (m *IngredientMatcher) liveProducts(ctx context.Context, products []ProductHit) []ProductHit {
	if m.checker == nil {
		return products
	}
	live := make([]ProductHit, 0, len(products))
	for _, p := range products {
		if HasLink(p.URL) && !m.checker.IsAlive(ctx, p.URL) {
			continue
		}
		live = append(live, p)
	}
	return live
}

// HasLink reports whether url is a real link rather than a placeholder
func HasLink(url string) bool {
	url = strings.TrimSpace(url)
	return url != "" && url != "N/A"
}

func (m IngredientMatches) String() string {
	return fmt.Sprintf("%s (%d products)", m.Ingredient, len(m.Products))
}
