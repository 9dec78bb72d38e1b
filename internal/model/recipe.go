package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecipeLine maps one ingredient of a product's bill of materials.
// QtyPerUnit is the base-unit consumption per single serving.
// The full set of lines for a product is replaced atomically on save.
type RecipeLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_product_ingredient"`
	IngredientID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_product_ingredient"`
	QtyPerUnit   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CreatedAt    time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// TableName maps recipe lines onto the recipes table.
func (RecipeLine) TableName() string { return "recipes" }
