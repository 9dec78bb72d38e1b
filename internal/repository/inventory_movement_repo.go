package repository

import (
	"context"

	"siwarapos/internal/dto"
	"siwarapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OnHandRow is one row of the derived stock projection: ingredient header
// fields joined with the signed sum of its movements.
type OnHandRow struct {
	IngredientID    uuid.UUID
	Name            string
	Unit            string
	MinLevel        decimal.Decimal
	PurchaseUnit    *string
	BasePerPurchase *decimal.Decimal
	OnHand          decimal.Decimal
}

// InventoryMovementRepository is insert-only: the stock ledger has no Update
// or Delete. On-hand is always recomputed from the movement rows.
type InventoryMovementRepository interface {
	Create(ctx context.Context, m *model.InventoryMovement) error
	CreateTx(tx *gorm.DB, m *model.InventoryMovement) error
	List(ctx context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, int64, error)
	// SumByIngredient folds the full movement history of one ingredient.
	SumByIngredient(ctx context.Context, ingredientID uuid.UUID) (decimal.Decimal, error)
	// OnHandAll joins active ingredients with their movement sums.
	OnHandAll(ctx context.Context) ([]OnHandRow, error)
	CountByIngredient(ctx context.Context, ingredientID uuid.UUID) (int64, error)
}

type inventoryMovementRepo struct{ db *gorm.DB }

func NewInventoryMovementRepository(db *gorm.DB) InventoryMovementRepository {
	return &inventoryMovementRepo{db: db}
}

func (r *inventoryMovementRepo) Create(ctx context.Context, m *model.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *inventoryMovementRepo) CreateTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *inventoryMovementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).Preload("Ingredient")
	if filter.IngredientID != "" {
		q = q.Where("ingredient_id = ?", filter.IngredientID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var movements []model.InventoryMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&movements).Error
	return movements, total, err
}

func (r *inventoryMovementRepo) SumByIngredient(ctx context.Context, ingredientID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Where("ingredient_id = ?", ingredientID).
		Select("SUM(qty)").Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *inventoryMovementRepo) OnHandAll(ctx context.Context) ([]OnHandRow, error) {
	var rows []OnHandRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.id   AS ingredient_id,
		       i.name,
		       i.unit,
		       i.min_level,
		       i.purchase_unit,
		       i.base_per_purchase,
		       COALESCE(SUM(m.qty), 0) AS on_hand
		FROM ingredients i
		LEFT JOIN inventory_movements m ON m.ingredient_id = i.id
		WHERE i.active = true
		GROUP BY i.id, i.name, i.unit, i.min_level, i.purchase_unit, i.base_per_purchase
		ORDER BY i.name ASC`).Scan(&rows).Error
	return rows, err
}

func (r *inventoryMovementRepo) CountByIngredient(ctx context.Context, ingredientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.InventoryMovement{}).
		Where("ingredient_id = ?", ingredientID).Count(&count).Error
	return count, err
}
