package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Qty       int    `json:"qty"        validate:"required,min=1"`
}

type CreateOrderRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	// Note is free text shown on the cup / queue board (e.g. "Charlie - less sweet").
	Note *string `json:"note"`
}

type AdvanceOrderRequest struct {
	QueueStatus string `json:"queue_status" validate:"required,oneof=preparing done void"`
}

// DiscountRequest carries the discount percentage. Zero is a valid value —
// it clears any discount — so the field is not required.
type DiscountRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

type SettleRequest struct {
	Method string `json:"method" validate:"required,oneof=cash transfer promptpay card other"`
	// Email: optional — when present, a PDF receipt is mailed after settlement.
	Email *string `json:"email" validate:"omitempty,email"`
}

// OrderFilter is bound from the query string of GET /v1/orders.
type OrderFilter struct {
	From   string `form:"from"`   // YYYY-MM-DD; empty = today
	To     string `form:"to"`     // YYYY-MM-DD; empty = today
	Search string `form:"search"` // matches code or id prefix
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	Product   string          `json:"product"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type PaymentResponse struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt string          `json:"paid_at"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	Code           string              `json:"code"`
	QueueStatus    string              `json:"queue_status"`
	PaymentStatus  string              `json:"payment_status"`
	OpenedAt       string              `json:"opened_at"`
	StartedAt      *string             `json:"started_at"`
	DoneAt         *string             `json:"done_at"`
	PaidAt         *string             `json:"paid_at"`
	PaidMethod     *string             `json:"paid_method"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	Total          decimal.Decimal     `json:"total"`
	Note           *string             `json:"note"`
	Items          []OrderItemResponse `json:"items"`
	Payments       []PaymentResponse   `json:"payments"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Queue board ─────────────────────────────────────────────────────────────

// QueueTicket is the compact ticket card shown on the bar display.
type QueueTicket struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Line      string  `json:"line"` // "Latte × 2 • Green Tea × 1"
	OpenedAt  string  `json:"opened_at"`
	StartedAt *string `json:"started_at"`
	DoneAt    *string `json:"done_at"`
	PaidAt    *string `json:"paid_at"`
}

// QueueBoardResponse groups today's tickets by board column.
type QueueBoardResponse struct {
	Queued     []QueueTicket `json:"queued"`
	Preparing  []QueueTicket `json:"preparing"`
	DoneUnpaid []QueueTicket `json:"done_unpaid"`
	DonePaid   []QueueTicket `json:"done_paid"`
}
