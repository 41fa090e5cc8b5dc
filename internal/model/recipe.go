package model

import (
	"strings"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Recipe is a scraped recipe together with its cleaned nutrition columns.
// Nutrition values are nullable: a missing value means the source page did not publish it.
type Recipe struct {
	ID              string          `gorm:"type:text;primaryKey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	URL             string          `gorm:"type:text" json:"url"`
	Ingredients     string          `gorm:"type:text" json:"ingredients"`
	Method          string          `gorm:"type:text" json:"method"`
	NutritionalData string          `gorm:"type:text" json:"nutritional_data"`
	Calories        *float64        `json:"calories"`
	Protein         *float64        `json:"protein"`
	Fat             *float64        `json:"fat"`
	Cholesterol     *float64        `json:"cholesterol"`
	Carbohydrates   *float64        `json:"carbohydrates"`
	Fibre           *float64        `json:"fibre"`
	Sodium          *float64        `json:"sodium"`
	Embedding       pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
}

// TableName keeps the table name used by the ingestion jobs
func (Recipe) TableName() string {
	return "recipes"
}

// Document renders the combined text the recipe embedding is computed from
func (r *Recipe) Document() string {
	var b strings.Builder
	b.WriteString("Recipe Name: " + r.Name + "\n")
	b.WriteString("Ingredients: " + r.Ingredients + "\n")
	b.WriteString("Method: " + r.Method + "\n")
	b.WriteString("Nutritional Info: " + r.NutritionalData)
	return b.String()
}
