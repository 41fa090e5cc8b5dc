// Package mocks holds testify mocks shared by the API, router and CLI tests
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/ragcipe/backend/internal/service"
	"github.com/pageza/ragcipe/backend/internal/types"
)

// MockRecommendationService is a mock implementation of service.RecommendationServiceInterface
type MockRecommendationService struct {
	mock.Mock
}

var _ service.RecommendationServiceInterface = (*MockRecommendationService)(nil)

func (m *MockRecommendationService) AnswerQuery(ctx context.Context, req service.QueryRequest) (*service.Recommendation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Recommendation), args.Error(1)
}

func (m *MockRecommendationService) GetRecipeChoices(ctx context.Context, req service.QueryRequest) (*service.ChoiceSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChoiceSession), args.Error(1)
}

func (m *MockRecommendationService) ProcessSelectedRecipe(ctx context.Context, sessionID string, index int) (*service.Recommendation, error) {
	args := m.Called(ctx, sessionID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Recommendation), args.Error(1)
}

// MockTokenValidator is a mock implementation of middleware.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}
