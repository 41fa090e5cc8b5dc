package service

import (
	"context"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/mock"
)

type MockRecipeSearcher struct {
	mock.Mock
}

func (m *MockRecipeSearcher) SearchRecipes(ctx context.Context, query string, limit int) ([]RecipeHit, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RecipeHit), args.Error(1)
}

type MockProductSearcher struct {
	mock.Mock
}

func (m *MockProductSearcher) SearchProducts(ctx context.Context, query string, limit int) ([]ProductHit, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ProductHit), args.Error(1)
}

type MockAttributeLookup struct {
	mock.Mock
}

func (m *MockAttributeLookup) LookupAttributes(ctx context.Context, ids []string) (map[string]RecipeAttributes, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]RecipeAttributes), args.Error(1)
}

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	args := m.Called(ctx, query, documents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockURLChecker struct {
	mock.Mock
}

func (m *MockURLChecker) IsAlive(ctx context.Context, url string) bool {
	args := m.Called(ctx, url)
	return args.Bool(0)
}

type MockEmbeddingService struct {
	mock.Mock
}

func (m *MockEmbeddingService) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(pgvector.Vector), args.Error(1)
}

func ptr(v float64) *float64 { return &v }
