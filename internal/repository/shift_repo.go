package repository

import (
	"context"
	"time"

	"siwarapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	// Create inserts a new open shift. The partial unique index
	// idx_shifts_single_open makes a concurrent duplicate open fail with
	// gorm.ErrDuplicatedKey, which the service maps to a conflict.
	Create(ctx context.Context, s *model.Shift) error
	FindOpen(ctx context.Context) (*model.Shift, error)
	// FindOpenTx reads the open shift on the caller's transaction, so a
	// drawer posting inside that transaction cannot target a shift some
	// other terminal closed in between.
	FindOpenTx(tx *gorm.DB) (*model.Shift, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error)
	// CloseCAS stamps the closing fields only while closed_at is still NULL.
	// Returns rows affected (0 = already closed by another terminal).
	CloseCAS(ctx context.Context, id uuid.UUID, closedAt time.Time, closingCash, diff decimal.Decimal) (int64, error)

	CreateMovement(ctx context.Context, m *model.CashMovement) error
	CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error
	ListMovements(ctx context.Context, shiftID uuid.UUID) ([]model.CashMovement, error)
	// SumMovements folds the full drawer ledger of one shift.
	SumMovements(ctx context.Context, shiftID uuid.UUID) (decimal.Decimal, error)
	History(ctx context.Context, page, limit int) ([]model.Shift, int64, error)
}

type shiftRepo struct{ db *gorm.DB }

func NewShiftRepository(db *gorm.DB) ShiftRepository { return &shiftRepo{db: db} }

func (r *shiftRepo) Create(ctx context.Context, s *model.Shift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shiftRepo) FindOpen(ctx context.Context) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).
		Where("closed_at IS NULL").
		Order("opened_at DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shiftRepo) FindOpenTx(tx *gorm.DB) (*model.Shift, error) {
	var s model.Shift
	err := tx.
		Where("closed_at IS NULL").
		Order("opened_at DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shiftRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	err := r.db.WithContext(ctx).Preload("Movements").First(&s, id).Error
	return &s, err
}

func (r *shiftRepo) CloseCAS(ctx context.Context, id uuid.UUID, closedAt time.Time, closingCash, diff decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Shift{}).
		Where("id = ? AND closed_at IS NULL", id).
		Updates(map[string]interface{}{
			"closed_at":    closedAt,
			"closing_cash": closingCash,
			"cash_diff":    diff,
		})
	return res.RowsAffected, res.Error
}

func (r *shiftRepo) CreateMovement(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *shiftRepo) CreateMovementTx(tx *gorm.DB, m *model.CashMovement) error {
	return tx.Create(m).Error
}

func (r *shiftRepo) ListMovements(ctx context.Context, shiftID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *shiftRepo) SumMovements(ctx context.Context, shiftID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Where("shift_id = ?", shiftID).
		Select("SUM(amount)").Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *shiftRepo) History(ctx context.Context, page, limit int) ([]model.Shift, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Shift{}).Where("closed_at IS NOT NULL")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shifts []model.Shift
	err := q.Order("opened_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&shifts).Error
	return shifts, total, err
}
