package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/ragcipe/backend/internal/model"
)

// RecipeAttributeStore reads structured nutrition columns from the recipes table
type RecipeAttributeStore struct {
	db *gorm.DB
}

// NewRecipeAttributeStore creates a new RecipeAttributeStore instance
func NewRecipeAttributeStore(db *gorm.DB) *RecipeAttributeStore {
	return &RecipeAttributeStore{db: db}
}

// LookupAttributes returns the attributes of every stored recipe among ids
func (s *RecipeAttributeStore) LookupAttributes(ctx context.Context, ids []string) (map[string]RecipeAttributes, error) {
	out := make(map[string]RecipeAttributes, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Select("id, calories, protein, fat, cholesterol, carbohydrates, fibre, sodium").
		Where("id IN ?", ids).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe attributes: %w", err)
	}

	for _, r := range recipes {
		out[r.ID] = RecipeAttributes{
			Calories:      r.Calories,
			Protein:       r.Protein,
			Fat:           r.Fat,
			Cholesterol:   r.Cholesterol,
			Carbohydrates: r.Carbohydrates,
			Fibre:         r.Fibre,
			Sodium:        r.Sodium,
		}
	}
	return out, nil
}
