package repository

import (
	"context"

	"siwarapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipeRepository interface {
	// Replace swaps the product's full recipe in one transaction:
	// delete all existing lines, insert the given set. All-or-nothing.
	Replace(ctx context.Context, productID uuid.UUID, lines []model.RecipeLine) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.RecipeLine, error)
	ListByProducts(ctx context.Context, productIDs []uuid.UUID) ([]model.RecipeLine, error)
	CountByIngredient(ctx context.Context, ingredientID uuid.UUID) (int64, error)
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) Replace(ctx context.Context, productID uuid.UUID, lines []model.RecipeLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.RecipeLine{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

func (r *recipeRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.RecipeLine, error) {
	var lines []model.RecipeLine
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Preload("Ingredient").
		Order("created_at ASC").
		Find(&lines).Error
	return lines, err
}

func (r *recipeRepo) ListByProducts(ctx context.Context, productIDs []uuid.UUID) ([]model.RecipeLine, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var lines []model.RecipeLine
	err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Preload("Ingredient").
		Find(&lines).Error
	return lines, err
}

func (r *recipeRepo) CountByIngredient(ctx context.Context, ingredientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RecipeLine{}).
		Where("ingredient_id = ?", ingredientID).Count(&count).Error
	return count, err
}
