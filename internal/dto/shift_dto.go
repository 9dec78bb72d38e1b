package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenShiftRequest struct {
	OpeningCash decimal.Decimal `json:"opening_cash" validate:"min=0"`
	Note        *string         `json:"note"`
}

type CashMovementRequest struct {
	TxnType string          `json:"txn_type" validate:"required,oneof=sale_cash cash_in cash_out refund_cash expense"`
	Amount  decimal.Decimal `json:"amount"   validate:"required,gt=0"`
	Note    *string         `json:"note"`
}

type CloseShiftRequest struct {
	CountedCash decimal.Decimal `json:"counted_cash" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CashMovementResponse struct {
	ID        string          `json:"id"`
	TxnType   string          `json:"txn_type"`
	Amount    decimal.Decimal `json:"amount"`
	Note      *string         `json:"note"`
	CreatedAt string          `json:"created_at"`
}

type ShiftResponse struct {
	ID           string                 `json:"id"`
	OpenedAt     string                 `json:"opened_at"`
	OpeningCash  decimal.Decimal        `json:"opening_cash"`
	ExpectedCash decimal.Decimal        `json:"expected_cash"`
	ClosedAt     *string                `json:"closed_at"`
	ClosingCash  *decimal.Decimal       `json:"closing_cash"`
	CashDiff     *decimal.Decimal       `json:"cash_diff"`
	Note         *string                `json:"note"`
	Movements    []CashMovementResponse `json:"movements,omitempty"`
}

type ShiftListResponse struct {
	Data  []ShiftResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
