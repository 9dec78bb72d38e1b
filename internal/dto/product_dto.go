package dto

import "github.com/shopspring/decimal"

type SaveProductRequest struct {
	Name     string          `json:"name"     validate:"required,min=1"`
	SKU      string          `json:"sku"      validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"    validate:"min=0"`
	Category *string         `json:"category"`
	Active   *bool           `json:"active"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	// Active: "false" = inactive only, "all" = everything, default = active only
	Active string `form:"active"`
	Page   int    `form:"page,default=1"    validate:"min=1"`
	Limit  int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type ProductResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	Price    decimal.Decimal `json:"price"`
	Category *string         `json:"category"`
	Active   bool            `json:"active"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
