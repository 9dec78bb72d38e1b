package service

import (
	"context"
	"errors"

	"siwarapos/internal/dto"
	"siwarapos/internal/model"
	"siwarapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateIngredient(ctx context.Context, req dto.SaveIngredientRequest) (*model.Ingredient, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, req dto.SaveIngredientRequest) (*model.Ingredient, error)
	ListIngredients(ctx context.Context, activeOnly bool) ([]model.Ingredient, error)
	// DeleteIngredient removes an ingredient nothing references. A live
	// movement or recipe reference is a ReferentialError; the caller falls
	// back to DeactivateIngredient.
	DeleteIngredient(ctx context.Context, id uuid.UUID) error
	// DeactivateIngredient flips active off. Always safe.
	DeactivateIngredient(ctx context.Context, id uuid.UUID) error

	// RecordMovement appends one ledger row, normalizing the sign by kind:
	// "in" must be positive, "waste" is forced negative, "adjust" keeps its
	// sign but must be non-zero.
	RecordMovement(ctx context.Context, req dto.MovementRequest) (*model.InventoryMovement, error)
	// ReceivePacks converts a purchase of whole packs into one "in" movement
	// of pack_count × pack_size base units.
	ReceivePacks(ctx context.Context, req dto.ReceivePacksRequest) (*model.InventoryMovement, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, int64, error)

	OnHand(ctx context.Context, ingredientID uuid.UUID) (decimal.Decimal, error)
	OnHandAll(ctx context.Context) ([]dto.OnHandResponse, error)
	// LowStock returns only the rows at or below their minimum level.
	LowStock(ctx context.Context) ([]dto.OnHandResponse, error)
}

type inventoryService struct {
	ingredientRepo repository.IngredientRepository
	movementRepo   repository.InventoryMovementRepository
	recipeRepo     repository.RecipeRepository
}

func NewInventoryService(
	ingredientRepo repository.IngredientRepository,
	movementRepo repository.InventoryMovementRepository,
	recipeRepo repository.RecipeRepository,
) InventoryService {
	return &inventoryService{
		ingredientRepo: ingredientRepo,
		movementRepo:   movementRepo,
		recipeRepo:     recipeRepo,
	}
}

func (s *inventoryService) CreateIngredient(ctx context.Context, req dto.SaveIngredientRequest) (*model.Ingredient, error) {
	if err := validatePack(req); err != nil {
		return nil, err
	}
	ing := &model.Ingredient{
		Name:            req.Name,
		Unit:            req.Unit,
		MinLevel:        req.MinLevel.Round(3),
		PurchaseUnit:    req.PurchaseUnit,
		BasePerPurchase: req.BasePerPurchase,
		Active:          true,
	}
	if err := s.ingredientRepo.Create(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

func (s *inventoryService) UpdateIngredient(ctx context.Context, id uuid.UUID, req dto.SaveIngredientRequest) (*model.Ingredient, error) {
	if err := validatePack(req); err != nil {
		return nil, err
	}
	ing, err := s.ingredientRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "ingredient"}
	}
	if err != nil {
		return nil, err
	}
	ing.Name = req.Name
	ing.Unit = req.Unit
	ing.MinLevel = req.MinLevel.Round(3)
	ing.PurchaseUnit = req.PurchaseUnit
	ing.BasePerPurchase = req.BasePerPurchase
	if err := s.ingredientRepo.Update(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// validatePack requires the purchase unit and its base conversion to come
// as a pair, with a positive conversion factor.
func validatePack(req dto.SaveIngredientRequest) error {
	hasUnit := req.PurchaseUnit != nil && *req.PurchaseUnit != ""
	hasFactor := req.BasePerPurchase != nil
	if hasUnit != hasFactor {
		return NewValidation("purchase_unit and base_per_purchase must be set together")
	}
	if hasFactor && !req.BasePerPurchase.IsPositive() {
		return NewValidation("base_per_purchase must be positive")
	}
	if req.MinLevel.IsNegative() {
		return NewValidation("min_level cannot be negative")
	}
	return nil
}

func (s *inventoryService) ListIngredients(ctx context.Context, activeOnly bool) ([]model.Ingredient, error) {
	return s.ingredientRepo.List(ctx, activeOnly)
}

func (s *inventoryService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ingredientRepo.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: "ingredient"}
	} else if err != nil {
		return err
	}

	movements, err := s.movementRepo.CountByIngredient(ctx, id)
	if err != nil {
		return err
	}
	recipes, err := s.recipeRepo.CountByIngredient(ctx, id)
	if err != nil {
		return err
	}
	if movements+recipes > 0 {
		// Ledger history and recipes must keep resolving; the operator
		// decides whether to deactivate instead.
		return &ReferentialError{Msg: "ingredient has movements or recipe lines; deactivate it instead"}
	}
	return s.ingredientRepo.HardDelete(ctx, id)
}

func (s *inventoryService) DeactivateIngredient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ingredientRepo.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: "ingredient"}
	} else if err != nil {
		return err
	}
	return s.ingredientRepo.SoftDelete(ctx, id)
}

func (s *inventoryService) RecordMovement(ctx context.Context, req dto.MovementRequest) (*model.InventoryMovement, error) {
	ingredientID, err := uuid.Parse(req.IngredientID)
	if err != nil {
		return nil, NewValidation("invalid ingredient id")
	}
	if _, err := s.ingredientRepo.FindByID(ctx, ingredientID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "ingredient"}
	} else if err != nil {
		return nil, err
	}

	qty := req.Qty.Round(3)
	switch req.Kind {
	case model.MoveIn:
		if !qty.IsPositive() {
			return nil, NewValidation("receiving quantity must be positive")
		}
	case model.MoveWaste:
		if qty.IsZero() {
			return nil, NewValidation("waste quantity cannot be zero")
		}
		// Waste always reduces stock, whatever sign the caller sent.
		qty = qty.Abs().Neg()
	case model.MoveAdjust:
		if qty.IsZero() {
			return nil, NewValidation("adjustment quantity cannot be zero")
		}
	default:
		return nil, NewValidation("unknown movement kind %q", req.Kind)
	}

	m := &model.InventoryMovement{
		IngredientID: ingredientID,
		Kind:         req.Kind,
		Qty:          qty,
		Reason:       req.Reason,
	}
	if err := s.movementRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	log.Info().Str("ingredient_id", ingredientID.String()).
		Str("kind", req.Kind).Str("qty", qty.String()).Msg("stock movement recorded")
	return m, nil
}

func (s *inventoryService) ReceivePacks(ctx context.Context, req dto.ReceivePacksRequest) (*model.InventoryMovement, error) {
	if req.PackCount < 1 {
		return nil, NewValidation("pack_count must be at least 1")
	}
	if !req.PackSize.IsPositive() {
		return nil, NewValidation("pack_size must be positive")
	}
	qty := req.PackSize.Mul(decimal.NewFromInt(int64(req.PackCount)))
	reason := req.Reason
	if reason == "" {
		reason = "pack delivery"
	}
	return s.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: req.IngredientID,
		Kind:         model.MoveIn,
		Qty:          qty,
		Reason:       reason,
	})
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, int64, error) {
	return s.movementRepo.List(ctx, filter)
}

func (s *inventoryService) OnHand(ctx context.Context, ingredientID uuid.UUID) (decimal.Decimal, error) {
	return s.movementRepo.SumByIngredient(ctx, ingredientID)
}

func (s *inventoryService) OnHandAll(ctx context.Context) ([]dto.OnHandResponse, error) {
	rows, err := s.movementRepo.OnHandAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OnHandResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toOnHandResponse(r))
	}
	return out, nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]dto.OnHandResponse, error) {
	rows, err := s.movementRepo.OnHandAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []dto.OnHandResponse{}
	for _, r := range rows {
		if r.OnHand.LessThanOrEqual(r.MinLevel) {
			out = append(out, toOnHandResponse(r))
		}
	}
	return out, nil
}

func toOnHandResponse(r repository.OnHandRow) dto.OnHandResponse {
	resp := dto.OnHandResponse{
		IngredientID:    r.IngredientID.String(),
		Name:            r.Name,
		Unit:            r.Unit,
		MinLevel:        r.MinLevel,
		PurchaseUnit:    r.PurchaseUnit,
		BasePerPurchase: r.BasePerPurchase,
		OnHand:          r.OnHand,
		Low:             r.OnHand.LessThanOrEqual(r.MinLevel),
	}
	if r.BasePerPurchase != nil && r.BasePerPurchase.IsPositive() {
		packs := r.OnHand.Div(*r.BasePerPurchase).Round(2)
		resp.OnHandInPacks = &packs
	}
	return resp
}
