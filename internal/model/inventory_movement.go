package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement kinds. Sign convention at insert time:
// "in" is always positive, "waste" always negative, "adjust" either sign.
const (
	MoveIn     = "in"
	MoveWaste  = "waste"
	MoveAdjust = "adjust"
)

// InventoryMovement is one immutable row of the stock ledger, in base units.
// On-hand is always derived as the sum of movements — it is never stored as a
// mutable counter. Movements are never updated or deleted.
type InventoryMovement struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IngredientID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind         string          `gorm:"type:varchar(10);not null"`
	Qty          decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Reason       string
	// RefID links to the originating order or shift when applicable.
	RefID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

// TableName overrides GORM's pluralization (inventory_movement -> inventory_movements).
func (InventoryMovement) TableName() string { return "inventory_movements" }
