package dto

import "github.com/shopspring/decimal"

type RecipeLineRequest struct {
	IngredientID string          `json:"ingredient_id"`
	QtyPerUnit   decimal.Decimal `json:"qty_per_unit"`
}

// SetRecipeRequest replaces the product's full recipe. Lines with an empty
// ingredient or non-positive quantity are filtered out rather than rejected.
type SetRecipeRequest struct {
	Lines []RecipeLineRequest `json:"lines"`
}

type RecipeLineResponse struct {
	IngredientID string          `json:"ingredient_id"`
	Ingredient   string          `json:"ingredient"`
	Unit         string          `json:"unit"`
	QtyPerUnit   decimal.Decimal `json:"qty_per_unit"`
}

type RecipeResponse struct {
	ProductID string               `json:"product_id"`
	Lines     []RecipeLineResponse `json:"lines"`
}

// ConsumptionLine is one entry of an order's theoretical ingredient usage.
type ConsumptionLine struct {
	IngredientID string          `json:"ingredient_id"`
	Ingredient   string          `json:"ingredient"`
	Unit         string          `json:"unit"`
	Qty          decimal.Decimal `json:"qty"`
}
