package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaveIngredientRequest struct {
	Name            string           `json:"name"     validate:"required,min=1"`
	Unit            string           `json:"unit"     validate:"required,min=1"` // g / ml / pcs
	MinLevel        decimal.Decimal  `json:"min_level" validate:"min=0"`
	PurchaseUnit    *string          `json:"purchase_unit"`
	BasePerPurchase *decimal.Decimal `json:"base_per_purchase"`
}

type MovementRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	Kind         string          `json:"kind"          validate:"required,oneof=in waste adjust"`
	Qty          decimal.Decimal `json:"qty"           validate:"required"`
	Reason       string          `json:"reason"`
}

// ReceivePacksRequest posts an "in" movement of pack_count × pack_size base units.
type ReceivePacksRequest struct {
	IngredientID string          `json:"ingredient_id" validate:"required,uuid"`
	PackCount    int             `json:"pack_count"    validate:"required,min=1"`
	PackSize     decimal.Decimal `json:"pack_size"     validate:"required"`
	Reason       string          `json:"reason"`
}

// MovementFilter is bound from the query string of GET /v1/inventory/movements.
type MovementFilter struct {
	IngredientID string `form:"ingredient_id"`
	Kind         string `form:"kind"`
	Page         int    `form:"page,default=1"    validate:"min=1"`
	Limit        int    `form:"limit,default=100" validate:"min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// OnHandResponse is one row of the stock overview: the derived on-hand level
// plus the pack conversion for purchasing.
type OnHandResponse struct {
	IngredientID    string           `json:"ingredient_id"`
	Name            string           `json:"name"`
	Unit            string           `json:"unit"`
	MinLevel        decimal.Decimal  `json:"min_level"`
	PurchaseUnit    *string          `json:"purchase_unit"`
	BasePerPurchase *decimal.Decimal `json:"base_per_purchase"`
	OnHand          decimal.Decimal  `json:"onhand"`
	OnHandInPacks   *decimal.Decimal `json:"onhand_in_packs"`
	Low             bool             `json:"low"`
}

type MovementResponse struct {
	ID         string          `json:"id"`
	Ingredient string          `json:"ingredient"`
	Kind       string          `json:"kind"`
	Qty        decimal.Decimal `json:"qty"`
	Reason     string          `json:"reason"`
	CreatedAt  string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
