package testhelpers

import (
	"testing"

	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/pageza/ragcipe/backend/internal/model"
)

// EmbeddingDim is the width of the embedding columns
const EmbeddingDim = 1536

// AxisVector returns a unit vector along axis, handy for predictable distances
func AxisVector(axis int) pgvector.Vector {
	v := make([]float32, EmbeddingDim)
	v[axis%EmbeddingDim] = 1
	return pgvector.NewVector(v)
}

// BlendVector returns a vector weighted between two axes
func BlendVector(a, b int, weightA float32) pgvector.Vector {
	v := make([]float32, EmbeddingDim)
	v[a%EmbeddingDim] = weightA
	v[b%EmbeddingDim] += 1 - weightA
	return pgvector.NewVector(v)
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// SeedRecipes inserts recipes, giving each a zero-free embedding when none is set
func SeedRecipes(t *testing.T, db *gorm.DB, recipes ...model.Recipe) {
	t.Helper()
	for i := range recipes {
		if len(recipes[i].Embedding.Slice()) == 0 {
			recipes[i].Embedding = AxisVector(i)
		}
		if err := db.Create(&recipes[i]).Error; err != nil {
			t.Fatalf("failed to seed recipe %s: %v", recipes[i].ID, err)
		}
	}
}

// SeedProducts inserts catalog products, giving each an embedding when none is set
func SeedProducts(t *testing.T, db *gorm.DB, products ...model.Product) {
	t.Helper()
	for i := range products {
		if len(products[i].Embedding.Slice()) == 0 {
			products[i].Embedding = AxisVector(i)
		}
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("failed to seed product %s: %v", products[i].ID, err)
		}
	}
}
