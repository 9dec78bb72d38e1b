package service

import (
	"context"
	"testing"

	"siwarapos/internal/dto"
	"siwarapos/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryFixture struct {
	svc         InventoryService
	ingredients *stubIngredientRepo
	movements   *stubMovementRepo
	recipes     *stubRecipeRepo
}

func newInventoryFixture() *inventoryFixture {
	ingredients := newStubIngredientRepo()
	movements := newStubMovementRepo(ingredients)
	recipes := newStubRecipeRepo(ingredients)
	return &inventoryFixture{
		svc:         NewInventoryService(ingredients, movements, recipes),
		ingredients: ingredients,
		movements:   movements,
		recipes:     recipes,
	}
}

func TestRecordMovementNormalizesSigns(t *testing.T) {
	f := newInventoryFixture()
	milk := f.ingredients.add("Milk", "ml", decimal.Zero)
	ctx := context.Background()

	in, err := f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: model.MoveIn, Qty: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.True(t, in.Qty.Equal(decimal.NewFromInt(1000)))

	// Waste posted with a positive quantity still reduces stock.
	waste, err := f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: model.MoveWaste, Qty: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	assert.True(t, waste.Qty.Equal(decimal.NewFromInt(-120)), "qty = %s", waste.Qty)

	adjust, err := f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: model.MoveAdjust, Qty: decimal.NewFromInt(-30),
	})
	require.NoError(t, err)
	assert.True(t, adjust.Qty.Equal(decimal.NewFromInt(-30)))

	onhand, err := f.svc.OnHand(ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, onhand.Equal(decimal.NewFromInt(850)), "onhand = %s", onhand)
}

func TestRecordMovementRejectsBadQuantities(t *testing.T) {
	f := newInventoryFixture()
	milk := f.ingredients.add("Milk", "ml", decimal.Zero)
	ctx := context.Background()
	var ve *ValidationError

	_, err := f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: model.MoveIn, Qty: decimal.NewFromInt(-5),
	})
	assert.ErrorAs(t, err, &ve)

	_, err = f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: model.MoveIn, Qty: decimal.Zero,
	})
	assert.ErrorAs(t, err, &ve)

	_, err = f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: model.MoveAdjust, Qty: decimal.Zero,
	})
	assert.ErrorAs(t, err, &ve)

	_, err = f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: "transfer", Qty: decimal.NewFromInt(1),
	})
	assert.ErrorAs(t, err, &ve)
}

func TestRecordMovementRoundsToThreeDecimals(t *testing.T) {
	f := newInventoryFixture()
	beans := f.ingredients.add("Coffee beans", "g", decimal.Zero)

	m, err := f.svc.RecordMovement(context.Background(), dto.MovementRequest{
		IngredientID: beans.ID.String(), Kind: model.MoveIn,
		Qty: decimal.RequireFromString("18.23456"),
	})
	require.NoError(t, err)
	assert.True(t, m.Qty.Equal(decimal.RequireFromString("18.235")), "qty = %s", m.Qty)
}

func TestReceivePacksConvertsToBaseUnits(t *testing.T) {
	f := newInventoryFixture()
	milk := f.ingredients.add("Milk", "ml", decimal.Zero)

	m, err := f.svc.ReceivePacks(context.Background(), dto.ReceivePacksRequest{
		IngredientID: milk.ID.String(),
		PackCount:    3,
		PackSize:     decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, model.MoveIn, m.Kind)
	assert.True(t, m.Qty.Equal(decimal.NewFromInt(3000)))
}

func TestOnHandReplaysFullLedger(t *testing.T) {
	f := newInventoryFixture()
	milk := f.ingredients.add("Milk", "ml", decimal.Zero)
	ctx := context.Background()

	for _, step := range []struct {
		kind string
		qty  int64
	}{
		{model.MoveIn, 1000},
		{model.MoveIn, 200},
		{model.MoveWaste, 50},
	} {
		_, err := f.svc.RecordMovement(ctx, dto.MovementRequest{
			IngredientID: milk.ID.String(), Kind: step.kind, Qty: decimal.NewFromInt(step.qty),
		})
		require.NoError(t, err)
	}

	onhand, err := f.svc.OnHand(ctx, milk.ID)
	require.NoError(t, err)
	assert.True(t, onhand.Equal(decimal.NewFromInt(1150)), "onhand = %s", onhand)
}

func TestOnHandAllFlagsLowStockAndPacks(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()

	milk := f.ingredients.add("Milk", "ml", decimal.NewFromInt(500))
	bag := "bag"
	perBag := decimal.NewFromInt(1000)
	milk.PurchaseUnit = &bag
	milk.BasePerPurchase = &perBag

	beans := f.ingredients.add("Coffee beans", "g", decimal.NewFromInt(100))

	_, err := f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: model.MoveIn, Qty: decimal.NewFromInt(400),
	})
	require.NoError(t, err)
	_, err = f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: beans.ID.String(), Kind: model.MoveIn, Qty: decimal.NewFromInt(900),
	})
	require.NoError(t, err)

	rows, err := f.svc.OnHandAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]dto.OnHandResponse{}
	for _, r := range rows {
		byName[r.Name] = r
	}
	assert.True(t, byName["Milk"].Low, "400 ml on hand with min 500 is low")
	require.NotNil(t, byName["Milk"].OnHandInPacks)
	assert.True(t, byName["Milk"].OnHandInPacks.Equal(decimal.RequireFromString("0.4")))
	assert.False(t, byName["Coffee beans"].Low)
	assert.Nil(t, byName["Coffee beans"].OnHandInPacks)

	low, err := f.svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Milk", low[0].Name)
}

func TestOnHandAtExactMinLevelIsLow(t *testing.T) {
	f := newInventoryFixture()
	milk := f.ingredients.add("Milk", "ml", decimal.NewFromInt(500))

	_, err := f.svc.RecordMovement(context.Background(), dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: model.MoveIn, Qty: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	low, err := f.svc.LowStock(context.Background())
	require.NoError(t, err)
	assert.Len(t, low, 1)
}

func TestDeleteIngredientBlockedByReferences(t *testing.T) {
	f := newInventoryFixture()
	milk := f.ingredients.add("Milk", "ml", decimal.Zero)
	ctx := context.Background()

	_, err := f.svc.RecordMovement(ctx, dto.MovementRequest{
		IngredientID: milk.ID.String(), Kind: model.MoveIn, Qty: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Ledger history must keep resolving: the delete fails and the row is
	// untouched — deactivation is the operator's explicit fallback.
	err = f.svc.DeleteIngredient(ctx, milk.ID)
	var re *ReferentialError
	require.ErrorAs(t, err, &re)
	assert.True(t, f.ingredients.ingredients[milk.ID].Active, "failed delete leaves the row as it was")

	require.NoError(t, f.svc.DeactivateIngredient(ctx, milk.ID))
	assert.False(t, f.ingredients.ingredients[milk.ID].Active)

	fresh := f.ingredients.add("Sugar", "g", decimal.Zero)
	require.NoError(t, f.svc.DeleteIngredient(ctx, fresh.ID))
	_, ok := f.ingredients.ingredients[fresh.ID]
	assert.False(t, ok, "unreferenced ingredient is removed outright")
}

func TestSaveIngredientValidatesPackPair(t *testing.T) {
	f := newInventoryFixture()
	ctx := context.Background()
	bag := "bag"
	var ve *ValidationError

	_, err := f.svc.CreateIngredient(ctx, dto.SaveIngredientRequest{
		Name: "Milk", Unit: "ml", PurchaseUnit: &bag,
	})
	assert.ErrorAs(t, err, &ve)

	zero := decimal.Zero
	_, err = f.svc.CreateIngredient(ctx, dto.SaveIngredientRequest{
		Name: "Milk", Unit: "ml", PurchaseUnit: &bag, BasePerPurchase: &zero,
	})
	assert.ErrorAs(t, err, &ve)

	perBag := decimal.NewFromInt(1000)
	ing, err := f.svc.CreateIngredient(ctx, dto.SaveIngredientRequest{
		Name: "Milk", Unit: "ml", PurchaseUnit: &bag, BasePerPurchase: &perBag,
	})
	require.NoError(t, err)
	assert.True(t, ing.Active)
}
