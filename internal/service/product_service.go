package service

import (
	"context"
	"errors"

	"siwarapos/internal/dto"
	"siwarapos/internal/model"
	"siwarapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	// Save upserts by SKU: a new SKU creates the product, a known SKU
	// updates it in place.
	Save(ctx context.Context, req dto.SaveProductRequest) (*model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req dto.SaveProductRequest) (*model.Product, error)
	// Delete removes a product nothing references. Order lines or recipe
	// lines pointing at it make the delete a ReferentialError; the caller
	// falls back to Deactivate.
	Delete(ctx context.Context, id uuid.UUID) error
	// Deactivate takes the product off the menu, keeping history intact.
	Deactivate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Save(ctx context.Context, req dto.SaveProductRequest) (*model.Product, error) {
	if req.Price.IsNegative() {
		return nil, NewValidation("price cannot be negative")
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	p := &model.Product{
		Name:     req.Name,
		SKU:      req.SKU,
		Price:    round2(req.Price),
		Category: req.Category,
		Active:   active,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "product"}
	}
	return p, err
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	return s.repo.List(ctx, filter.Active, filter.Name)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.SaveProductRequest) (*model.Product, error) {
	if req.Price.IsNegative() {
		return nil, NewValidation("price cannot be negative")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.SKU = req.SKU
	// Existing order lines keep their snapshotted price.
	p.Price = round2(req.Price)
	p.Category = req.Category
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return &ReferentialError{Msg: "product is referenced by order lines or recipes; deactivate it instead"}
	}
	return s.repo.HardDelete(ctx, id)
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}
