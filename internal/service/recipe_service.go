package service

import (
	"context"
	"errors"

	"siwarapos/internal/dto"
	"siwarapos/internal/model"
	"siwarapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecipeService interface {
	// SetRecipe replaces the product's full bill of materials atomically.
	// Lines with an empty ingredient or non-positive quantity are dropped
	// before saving; an all-empty request clears the recipe.
	SetRecipe(ctx context.Context, productID uuid.UUID, req dto.SetRecipeRequest) (*dto.RecipeResponse, error)
	GetRecipe(ctx context.Context, productID uuid.UUID) (*dto.RecipeResponse, error)
	// TheoreticalConsumption expands an order's items through their recipes
	// into per-ingredient base-unit usage. Products without a recipe
	// contribute nothing.
	TheoreticalConsumption(ctx context.Context, orderID uuid.UUID) ([]dto.ConsumptionLine, error)
}

type recipeService struct {
	repo           repository.RecipeRepository
	productRepo    repository.ProductRepository
	ingredientRepo repository.IngredientRepository
	orderRepo      repository.OrderRepository
}

func NewRecipeService(
	repo repository.RecipeRepository,
	productRepo repository.ProductRepository,
	ingredientRepo repository.IngredientRepository,
	orderRepo repository.OrderRepository,
) RecipeService {
	return &recipeService{
		repo:           repo,
		productRepo:    productRepo,
		ingredientRepo: ingredientRepo,
		orderRepo:      orderRepo,
	}
}

func (s *recipeService) SetRecipe(ctx context.Context, productID uuid.UUID, req dto.SetRecipeRequest) (*dto.RecipeResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "product"}
	} else if err != nil {
		return nil, err
	}

	lines := make([]model.RecipeLine, 0, len(req.Lines))
	seen := make(map[uuid.UUID]bool, len(req.Lines))
	for _, l := range req.Lines {
		if l.IngredientID == "" || !l.QtyPerUnit.IsPositive() {
			continue
		}
		ingredientID, err := uuid.Parse(l.IngredientID)
		if err != nil {
			return nil, NewValidation("invalid ingredient id %q", l.IngredientID)
		}
		if seen[ingredientID] {
			return nil, NewValidation("duplicate ingredient in recipe")
		}
		seen[ingredientID] = true
		if _, err := s.ingredientRepo.FindByID(ctx, ingredientID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "ingredient"}
		} else if err != nil {
			return nil, err
		}
		lines = append(lines, model.RecipeLine{
			ProductID:    productID,
			IngredientID: ingredientID,
			QtyPerUnit:   l.QtyPerUnit.Round(3),
		})
	}

	if err := s.repo.Replace(ctx, productID, lines); err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, productID)
}

func (s *recipeService) GetRecipe(ctx context.Context, productID uuid.UUID) (*dto.RecipeResponse, error) {
	lines, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	resp := &dto.RecipeResponse{
		ProductID: productID.String(),
		Lines:     make([]dto.RecipeLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out := dto.RecipeLineResponse{
			IngredientID: l.IngredientID.String(),
			QtyPerUnit:   l.QtyPerUnit,
		}
		if l.Ingredient != nil {
			out.Ingredient = l.Ingredient.Name
			out.Unit = l.Ingredient.Unit
		}
		resp.Lines = append(resp.Lines, out)
	}
	return resp, nil
}

func (s *recipeService) TheoreticalConsumption(ctx context.Context, orderID uuid.UUID) ([]dto.ConsumptionLine, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "order"}
	}
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(order.Items))
	qtyByProduct := make(map[uuid.UUID]int, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
		qtyByProduct[item.ProductID] += item.Qty
	}

	lines, err := s.repo.ListByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	type agg struct {
		name string
		unit string
		qty  decimal.Decimal
	}
	usage := make(map[uuid.UUID]*agg)
	ordered := make([]uuid.UUID, 0)
	for _, l := range lines {
		qty := l.QtyPerUnit.Mul(decimal.NewFromInt(int64(qtyByProduct[l.ProductID])))
		a, ok := usage[l.IngredientID]
		if !ok {
			a = &agg{}
			if l.Ingredient != nil {
				a.name = l.Ingredient.Name
				a.unit = l.Ingredient.Unit
			}
			usage[l.IngredientID] = a
			ordered = append(ordered, l.IngredientID)
		}
		a.qty = a.qty.Add(qty)
	}

	out := make([]dto.ConsumptionLine, 0, len(ordered))
	for _, id := range ordered {
		a := usage[id]
		out = append(out, dto.ConsumptionLine{
			IngredientID: id.String(),
			Ingredient:   a.name,
			Unit:         a.unit,
			Qty:          a.qty.Round(3),
		})
	}
	return out, nil
}
