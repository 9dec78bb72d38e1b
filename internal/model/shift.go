package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash movement types. cash_in/sale_cash are stored positive,
// cash_out/refund_cash/expense are stored negative at insert time, so
// expected cash reduces to opening_cash plus a flat sum of amounts.
const (
	TxnSaleCash   = "sale_cash"
	TxnCashIn     = "cash_in"
	TxnCashOut    = "cash_out"
	TxnRefundCash = "refund_cash"
	TxnExpense    = "expense"
)

// Shift is one cash-drawer session. At most one shift has ClosedAt = NULL at
// any time; a partial unique index enforces this at the store (see infra).
type Shift struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OpenedAt    time.Time       `gorm:"index"`
	OpeningCash decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	ClosedAt    *time.Time
	ClosingCash *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// CashDiff = counted - expected, computed once at close.
	CashDiff *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Note *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Movements []CashMovement `gorm:"foreignKey:ShiftID"`
}

// CashMovement is an immutable event in the drawer ledger. Movements are
// never modified or deleted — corrections create inverse entries.
type CashMovement struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShiftID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TxnType string          `gorm:"type:varchar(20);not null"`
	Note    *string
	// RefID links to the originating order when the movement came from a sale.
	RefID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
}
