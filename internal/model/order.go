package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Queue statuses of an order (preparation axis).
const (
	QueueQueued    = "queued"
	QueuePreparing = "preparing"
	QueueDone      = "done"
	QueueVoid      = "void"
)

// Payment statuses of an order (payment axis, independent of the queue).
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Payment methods accepted at the counter. Methods are recorded, not processed.
const (
	MethodCash      = "cash"
	MethodTransfer  = "transfer"
	MethodPromptPay = "promptpay"
	MethodCard      = "card"
	MethodOther     = "other"
)

// Order is one customer ticket from creation to settlement or void.
// Invariant: Total = max(0, Subtotal - DiscountAmount).
type Order struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code string    `gorm:"uniqueIndex;not null"`

	QueueStatus   string `gorm:"type:varchar(20);not null;default:'queued';index"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'unpaid';index"`

	OpenedAt  time.Time `gorm:"index"`
	StartedAt *time.Time
	DoneAt    *time.Time
	PaidAt    *time.Time `gorm:"index"`
	// PaidMethod is set only while PaymentStatus = paid.
	PaidMethod *string `gorm:"type:varchar(20)"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Note *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Items    []OrderItem `gorm:"foreignKey:OrderID"`
	Payments []Payment   `gorm:"foreignKey:OrderID"`
}

// OrderItem is one line of an order. UnitPrice is an immutable snapshot of the
// product price at order time; lines are never mutated after creation.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Qty       int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// Payment is an immutable settlement record, written at most once per order.
// It exists so settle idempotence is observable and by-method reports have a
// ledger to read instead of re-deriving from order headers.
type Payment struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Method  string          `gorm:"type:varchar(20);not null"`
	Amount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAt  time.Time
}
