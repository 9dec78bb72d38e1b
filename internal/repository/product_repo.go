package repository

import (
	"context"

	"siwarapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	// Upsert inserts or, on SKU collision, updates the existing row in place.
	Upsert(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	// List filters by active flag: "" or "true" → active only,
	// "false" → inactive only, "all" → everything.
	List(ctx context.Context, active, search string) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
	// CountReferences reports how many order items and recipe lines
	// point at the product, to guard hard deletes.
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Upsert(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "category", "active"}),
	}).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepo) List(ctx context.Context, active, search string) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	switch active {
	case "all":
	case "false":
		q = q.Where("active = ?", false)
	default:
		q = q.Where("active = ?", true)
	}
	if search != "" {
		q = q.Where("name ILIKE ? OR sku ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var products []model.Product
	err := q.Order("category ASC, name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).Update("active", false).Error
}

func (r *productRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).Update("active", true).Error
}

func (r *productRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var items int64
	if err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("product_id = ?", id).Count(&items).Error; err != nil {
		return 0, err
	}
	var lines int64
	if err := r.db.WithContext(ctx).Model(&model.RecipeLine{}).
		Where("product_id = ?", id).Count(&lines).Error; err != nil {
		return 0, err
	}
	return items + lines, nil
}
