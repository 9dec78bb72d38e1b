package repository

import (
	"context"
	"time"

	"siwarapos/internal/dto"
	"siwarapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository defines the data access contract for orders and payments.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
//
// Status transitions are conditional updates checked by rows-affected, so a
// stale read never overwrites a newer committed status (two terminals racing
// on the same ticket).
type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter, from, to time.Time) ([]model.Order, int64, error)
	// ListBoard returns live tickets (queued/preparing/done) opened since the
	// given time, oldest first — the queue board's working set.
	ListBoard(ctx context.Context, since time.Time) ([]model.Order, error)
	// ListPaidBetween returns orders settled inside [from, to], keyed on paid_at.
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]model.Order, error)

	UpdateDiscount(ctx context.Context, id uuid.UUID, discount, total decimal.Decimal) error

	// AdvanceCAS applies patch only when the stored queue_status still equals
	// expected. Returns the number of rows updated (0 = lost the race or the
	// status changed underneath the caller).
	AdvanceCAS(ctx context.Context, id uuid.UUID, expected string, patch map[string]interface{}) (int64, error)
	// SettleCAS marks the order paid only when it is still unpaid.
	SettleCAS(tx *gorm.DB, id uuid.UUID, method string, paidAt time.Time) (int64, error)
	// UnsettleCAS reverts to unpaid only when the order is currently paid.
	// Runs on the caller's transaction so the flip rolls back together with
	// the payment and drawer reversals.
	UnsettleCAS(tx *gorm.DB, id uuid.UUID) (int64, error)

	HasPayments(ctx context.Context, orderID uuid.UUID) (bool, error)
	CreatePaymentTx(tx *gorm.DB, p *model.Payment) error
	DeletePaymentsTx(tx *gorm.DB, orderID uuid.UUID) error

	// DeleteTx removes owned items first, then the header.
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// NextTicketSeq draws the next ticket number from the order code sequence.
	NextTicketSeq(tx *gorm.DB) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Payments").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter, from, to time.Time) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("opened_at BETWEEN ? AND ?", from, to)
	if filter.Search != "" {
		q = q.Where("code ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var orders []model.Order
	err := q.Preload("Items.Product").Preload("Payments").
		Order("opened_at DESC").Limit(filter.Limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) ListBoard(ctx context.Context, since time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("opened_at >= ?", since).
		Where("queue_status IN ?", []string{model.QueueQueued, model.QueuePreparing, model.QueueDone}).
		Preload("Items.Product").
		Order("opened_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ListPaidBetween(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("payment_status = ?", model.PaymentPaid).
		Where("paid_at BETWEEN ? AND ?", from, to).
		Preload("Items.Product").
		Preload("Payments").
		Order("paid_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) UpdateDiscount(ctx context.Context, id uuid.UUID, discount, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"discount_amount": discount,
			"total":           total,
		}).Error
}

func (r *orderRepo) AdvanceCAS(ctx context.Context, id uuid.UUID, expected string, patch map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND queue_status = ?", id, expected).
		Updates(patch)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) SettleCAS(tx *gorm.DB, id uuid.UUID, method string, paidAt time.Time) (int64, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", id, model.PaymentUnpaid).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentPaid,
			"paid_at":        paidAt,
			"paid_method":    method,
		})
	return res.RowsAffected, res.Error
}

func (r *orderRepo) UnsettleCAS(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", id, model.PaymentPaid).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentUnpaid,
			"paid_at":        nil,
			"paid_method":    nil,
		})
	return res.RowsAffected, res.Error
}

func (r *orderRepo) HasPayments(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (r *orderRepo) CreatePaymentTx(tx *gorm.DB, p *model.Payment) error {
	return tx.Create(p).Error
}

func (r *orderRepo) DeletePaymentsTx(tx *gorm.DB, orderID uuid.UUID) error {
	return tx.Where("order_id = ?", orderID).Delete(&model.Payment{}).Error
}

func (r *orderRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Order{}, id).Error
}

func (r *orderRepo) NextTicketSeq(tx *gorm.DB) (int64, error) {
	var n int64
	err := tx.Raw("SELECT nextval('order_code_seq')").Scan(&n).Error
	return n, err
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
