package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/model"
)

// CatalogIndexer embeds recipes and products and upserts them into the vector tables
type CatalogIndexer struct {
	db         *gorm.DB
	embeddings EmbeddingServiceInterface
	workers    int
	batchSize  int
}

// NewCatalogIndexer creates a new CatalogIndexer instance
func NewCatalogIndexer(db *gorm.DB, embeddings EmbeddingServiceInterface, workers int) *CatalogIndexer {
	if workers <= 0 {
		workers = 4
	}
	return &CatalogIndexer{
		db:         db,
		embeddings: embeddings,
		workers:    workers,
		batchSize:  100,
	}
}

// IndexRecipes embeds each recipe's combined document and upserts it by id.
// Recipes without an id get a generated one.
func (ix *CatalogIndexer) IndexRecipes(ctx context.Context, recipes []model.Recipe) (int, error) {
	if len(recipes) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for i := range recipes {
		r := &recipes[i]
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		g.Go(func() error {
			vec, err := ix.embeddings.GenerateEmbedding(gctx, r.Document())
			if err != nil {
				return fmt.Errorf("failed to embed recipe %s: %w", r.ID, err)
			}
			r.Embedding = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	err := ix.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		CreateInBatches(recipes, ix.batchSize).Error
	if err != nil {
		return 0, fmt.Errorf("failed to save recipes: %w", err)
	}

	logging.Ctx(ctx).Info().Int("count", len(recipes)).Msg("indexed recipes")
	return len(recipes), nil
}

// IndexProducts embeds each catalog product and upserts it by id
func (ix *CatalogIndexer) IndexProducts(ctx context.Context, products []model.Product) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for i := range products {
		p := &products[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		g.Go(func() error {
			vec, err := ix.embeddings.GenerateEmbedding(gctx, p.Document())
			if err != nil {
				return fmt.Errorf("failed to embed product %s: %w", p.ID, err)
			}
			p.Embedding = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	err := ix.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		CreateInBatches(products, ix.batchSize).Error
	if err != nil {
		return 0, fmt.Errorf("failed to save products: %w", err)
	}

	logging.Ctx(ctx).Info().Int("count", len(products)).Msg("indexed products")
	return len(products), nil
}
