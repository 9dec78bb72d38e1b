package service

import (
	"context"
	"testing"

	"siwarapos/internal/dto"
	"siwarapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipeFixture struct {
	svc         RecipeService
	orders      *stubOrderRepo
	products    *stubProductRepo
	ingredients *stubIngredientRepo
	recipes     *stubRecipeRepo
}

func newRecipeFixture() *recipeFixture {
	orders := newStubOrderRepo()
	products := newStubProductRepo()
	ingredients := newStubIngredientRepo()
	recipes := newStubRecipeRepo(ingredients)
	return &recipeFixture{
		svc:         NewRecipeService(recipes, products, ingredients, orders),
		orders:      orders,
		products:    products,
		ingredients: ingredients,
		recipes:     recipes,
	}
}

func TestSetRecipeReplacesWholeSet(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	latte := f.products.add("Latte", "LAT-01", decimal.NewFromInt(50))
	milk := f.ingredients.add("Milk", "ml", decimal.Zero)
	beans := f.ingredients.add("Coffee beans", "g", decimal.Zero)

	resp, err := f.svc.SetRecipe(ctx, latte.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineRequest{
		{IngredientID: milk.ID.String(), QtyPerUnit: decimal.NewFromInt(180)},
		{IngredientID: beans.ID.String(), QtyPerUnit: decimal.NewFromInt(18)},
	}})
	require.NoError(t, err)
	assert.Len(t, resp.Lines, 2)

	// A second save with one line replaces, never merges.
	resp, err = f.svc.SetRecipe(ctx, latte.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineRequest{
		{IngredientID: milk.ID.String(), QtyPerUnit: decimal.NewFromInt(200)},
	}})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].QtyPerUnit.Equal(decimal.NewFromInt(200)))
}

func TestSetRecipeFiltersBlankLinesAndEmptyClears(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	latte := f.products.add("Latte", "LAT-01", decimal.NewFromInt(50))
	milk := f.ingredients.add("Milk", "ml", decimal.Zero)

	resp, err := f.svc.SetRecipe(ctx, latte.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineRequest{
		{IngredientID: milk.ID.String(), QtyPerUnit: decimal.NewFromInt(180)},
		{IngredientID: "", QtyPerUnit: decimal.NewFromInt(10)},
		{IngredientID: milk.ID.String(), QtyPerUnit: decimal.Zero},
	}})
	require.NoError(t, err)
	assert.Len(t, resp.Lines, 1)

	resp, err = f.svc.SetRecipe(ctx, latte.ID, dto.SetRecipeRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
}

func TestSetRecipeRejectsDuplicateIngredient(t *testing.T) {
	f := newRecipeFixture()
	latte := f.products.add("Latte", "LAT-01", decimal.NewFromInt(50))
	milk := f.ingredients.add("Milk", "ml", decimal.Zero)

	_, err := f.svc.SetRecipe(context.Background(), latte.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineRequest{
		{IngredientID: milk.ID.String(), QtyPerUnit: decimal.NewFromInt(100)},
		{IngredientID: milk.ID.String(), QtyPerUnit: decimal.NewFromInt(80)},
	}})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestSetRecipeUnknownProductOrIngredient(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	latte := f.products.add("Latte", "LAT-01", decimal.NewFromInt(50))
	var nf *NotFoundError

	_, err := f.svc.SetRecipe(ctx, uuid.New(), dto.SetRecipeRequest{})
	assert.ErrorAs(t, err, &nf)

	_, err = f.svc.SetRecipe(ctx, latte.ID, dto.SetRecipeRequest{Lines: []dto.RecipeLineRequest{
		{IngredientID: uuid.New().String(), QtyPerUnit: decimal.NewFromInt(10)},
	}})
	assert.ErrorAs(t, err, &nf)
}

func TestTheoreticalConsumptionScalesWithQuantities(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	milk := f.ingredients.add("Milk", "ml", decimal.Zero)
	beans := f.ingredients.add("Coffee beans", "g", decimal.Zero)
	latte := f.products.add("Latte", "LAT-01", decimal.NewFromInt(50))
	americano := f.products.add("Americano", "AME-01", decimal.NewFromInt(40))

	require.NoError(t, f.recipes.Replace(ctx, latte.ID, []model.RecipeLine{
		{ProductID: latte.ID, IngredientID: milk.ID, QtyPerUnit: decimal.NewFromInt(180)},
		{ProductID: latte.ID, IngredientID: beans.ID, QtyPerUnit: decimal.NewFromInt(18)},
	}))
	require.NoError(t, f.recipes.Replace(ctx, americano.ID, []model.RecipeLine{
		{ProductID: americano.ID, IngredientID: beans.ID, QtyPerUnit: decimal.NewFromInt(18)},
	}))

	order := &model.Order{
		QueueStatus:   model.QueueQueued,
		PaymentStatus: model.PaymentUnpaid,
		Items: []model.OrderItem{
			{ProductID: latte.ID, Qty: 2},
			{ProductID: americano.ID, Qty: 1},
		},
	}
	require.NoError(t, f.orders.Create(ctx, nil, order))

	lines, err := f.svc.TheoreticalConsumption(ctx, order.ID)
	require.NoError(t, err)

	byName := map[string]decimal.Decimal{}
	for _, l := range lines {
		byName[l.Ingredient] = l.Qty
	}
	assert.True(t, byName["Milk"].Equal(decimal.NewFromInt(360)), "milk = %s", byName["Milk"])
	assert.True(t, byName["Coffee beans"].Equal(decimal.NewFromInt(54)), "beans = %s", byName["Coffee beans"])
}

func TestTheoreticalConsumptionWithoutRecipesIsEmpty(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()
	tea := f.products.add("Green Tea", "TEA-01", decimal.NewFromInt(35))

	order := &model.Order{Items: []model.OrderItem{{ProductID: tea.ID, Qty: 3}}}
	require.NoError(t, f.orders.Create(ctx, nil, order))

	lines, err := f.svc.TheoreticalConsumption(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
