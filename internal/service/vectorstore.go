package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/model"
)

// PGVectorStore searches the recipes and products tables by embedding distance.
// On databases other than postgres it falls back to keyword matching, which is meant for
// sqlite development and tests only: distances there are the share of missing query words.
type PGVectorStore struct {
	db               *gorm.DB
	embeddingService EmbeddingServiceInterface
	fallbackOnce     sync.Once
}

// NewPGVectorStore creates a new PGVectorStore instance
func NewPGVectorStore(db *gorm.DB, embeddingService EmbeddingServiceInterface) *PGVectorStore {
	return &PGVectorStore{
		db:               db,
		embeddingService: embeddingService,
	}
}

const recipeSearchColumns = "id, name, url, ingredients, method, nutritional_data"

type recipeRow struct {
	ID              string
	Name            string
	URL             string
	Ingredients     string
	Method          string
	NutritionalData string
	Distance        float64
}

func (r recipeRow) hit() RecipeHit {
	doc := (&model.Recipe{
		Name:            r.Name,
		Ingredients:     r.Ingredients,
		Method:          r.Method,
		NutritionalData: r.NutritionalData,
	}).Document()
	return RecipeHit{
		ID:       r.ID,
		Name:     r.Name,
		URL:      r.URL,
		Document: doc,
		Distance: r.Distance,
	}
}

// SearchRecipes returns the recipes closest to query. Attributes are left to the attribute store.
func (s *PGVectorStore) SearchRecipes(ctx context.Context, query string, limit int) ([]RecipeHit, error) {
	if limit <= 0 {
		return []RecipeHit{}, nil
	}

	var rows []recipeRow
	if s.isPostgres() {
		vec, err := s.embed(ctx, query)
		if err != nil {
			return nil, err
		}
		err = s.db.WithContext(ctx).Model(&model.Recipe{}).
			Select(recipeSearchColumns+", embedding <-> ? AS distance", vec).
			Where("embedding IS NOT NULL").
			Order("distance ASC").
			Limit(limit).
			Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to search recipes: %w", err)
		}
	} else {
		s.warnKeywordFallback(ctx)
		words := queryWords(query)
		if len(words) == 0 {
			return []RecipeHit{}, nil
		}
		var matched []recipeRow
		err := s.keywordQuery(ctx, &model.Recipe{}, words, "name", "ingredients").
			Select(recipeSearchColumns).
			Scan(&matched).Error
		if err != nil {
			return nil, fmt.Errorf("failed to search recipes: %w", err)
		}
		for i := range matched {
			matched[i].Distance = keywordDistance(words, matched[i].Name+" "+matched[i].Ingredients)
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Distance < matched[j].Distance })
		if len(matched) > limit {
			matched = matched[:limit]
		}
		rows = matched
	}

	hits := make([]RecipeHit, len(rows))
	for i, r := range rows {
		hits[i] = r.hit()
	}
	return hits, nil
}

const productSearchColumns = "id, name, brand, price, size, url"

// SearchProducts returns the catalog products closest to query
func (s *PGVectorStore) SearchProducts(ctx context.Context, query string, limit int) ([]ProductHit, error) {
	if limit <= 0 {
		return []ProductHit{}, nil
	}

	var hits []ProductHit
	if s.isPostgres() {
		vec, err := s.embed(ctx, query)
		if err != nil {
			return nil, err
		}
		err = s.db.WithContext(ctx).Model(&model.Product{}).
			Select(productSearchColumns+", embedding <-> ? AS distance", vec).
			Where("embedding IS NOT NULL").
			Order("distance ASC").
			Limit(limit).
			Scan(&hits).Error
		if err != nil {
			return nil, fmt.Errorf("failed to search products: %w", err)
		}
		return hits, nil
	}

	s.warnKeywordFallback(ctx)
	words := queryWords(query)
	if len(words) == 0 {
		return []ProductHit{}, nil
	}
	var matched []ProductHit
	err := s.keywordQuery(ctx, &model.Product{}, words, "name", "category").
		Select(productSearchColumns).
		Scan(&matched).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	for i := range matched {
		matched[i].Distance = keywordDistance(words, matched[i].Name)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Distance < matched[j].Distance })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *PGVectorStore) isPostgres() bool {
	return s.db.Dialector.Name() == "postgres"
}

func (s *PGVectorStore) warnKeywordFallback(ctx context.Context) {
	s.fallbackOnce.Do(func() {
		logging.Ctx(ctx).Warn().
			Str("dialect", s.db.Dialector.Name()).
			Msg("semantic search unavailable, ranking by keyword overlap")
	})
}

func (s *PGVectorStore) embed(ctx context.Context, query string) (interface{}, error) {
	if s.embeddingService == nil {
		return nil, fmt.Errorf("semantic search requires an embedding service")
	}
	vec, err := s.embeddingService.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}
	return vec, nil
}

// keywordQuery matches rows where any query word appears in any of the columns
func (s *PGVectorStore) keywordQuery(ctx context.Context, table interface{}, words []string, columns ...string) *gorm.DB {
	var clauses []string
	var args []interface{}
	for _, w := range words {
		for _, col := range columns {
			clauses = append(clauses, "LOWER("+col+") LIKE ?")
			args = append(args, "%"+w+"%")
		}
	}
	return s.db.WithContext(ctx).Model(table).Where(strings.Join(clauses, " OR "), args...).Order("id")
}

func queryWords(query string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= 3 {
			words = append(words, w)
		}
	}
	return words
}

// keywordDistance is the share of query words missing from text
func keywordDistance(words []string, text string) float64 {
	text = strings.ToLower(text)
	found := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			found++
		}
	}
	return 1 - float64(found)/float64(len(words))
}
