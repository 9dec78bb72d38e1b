package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a raw material tracked in base units (g / ml / pcs).
// PurchaseUnit and BasePerPurchase describe the pack it is bought in
// (e.g. "bag" of 1000 g); both are optional.
type Ingredient struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string          `gorm:"index;not null"`
	Unit     string          `gorm:"type:varchar(10);not null;default:'g'"`
	MinLevel decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`

	PurchaseUnit    *string          `gorm:"type:varchar(20)"`
	BasePerPurchase *decimal.Decimal `gorm:"type:decimal(12,3)"`

	Active bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
