package model

import (
	"fmt"
	"strings"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Product is a grocery catalog item that recipe ingredients are matched against
type Product struct {
	ID                    string          `gorm:"type:text;primaryKey" json:"id"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Name                  string          `gorm:"size:255;not null" json:"name"`
	Brand                 string          `gorm:"size:255" json:"brand"`
	Category              string          `gorm:"size:255" json:"category"`
	KeyInformation        string          `gorm:"type:text" json:"key_information"`
	AdditionalInformation string          `gorm:"type:text" json:"additional_information"`
	Ingredients           string          `gorm:"type:text" json:"ingredients"`
	Dietary               string          `gorm:"type:text" json:"dietary"`
	Origin                string          `gorm:"size:255" json:"origin"`
	NutritionalData       string          `gorm:"type:text" json:"nutritional_data"`
	Price                 float64         `gorm:"type:float;default:-1" json:"price"`
	Size                  string          `gorm:"size:100" json:"size"`
	Ratings               float64         `gorm:"type:float;default:-1" json:"ratings"`
	URL                   string          `gorm:"type:text" json:"url"`
	Embedding             pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
}

// TableName returns the catalog table name
func (Product) TableName() string {
	return "products"
}

// Document renders the text a product embedding is computed from
func (p *Product) Document() string {
	parts := []string{
		fmt.Sprintf("%s by %s.", p.Name, p.Brand),
		"Category: " + p.Category + ".",
		p.KeyInformation + ".",
		"Ingredients: " + p.Ingredients + ".",
		"Additional info: " + p.AdditionalInformation + ".",
		"Dietary: " + p.Dietary + ".",
		"Origin: " + p.Origin + ".",
		"Nutrition: " + p.NutritionalData + ".",
	}
	return strings.Join(parts, " ")
}
