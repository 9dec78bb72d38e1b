package service

import (
	"context"
	"testing"

	"siwarapos/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveProductUpsertsBySKU(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo)
	ctx := context.Background()

	first, err := svc.Save(ctx, dto.SaveProductRequest{
		Name: "Latte", SKU: "LAT-01", Price: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	// Same SKU updates in place instead of creating a duplicate.
	second, err := svc.Save(ctx, dto.SaveProductRequest{
		Name: "Latte (hot)", SKU: "LAT-01", Price: decimal.NewFromInt(55),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.products, 1)
	assert.Equal(t, "Latte (hot)", repo.products[first.ID].Name)
}

func TestSaveProductRejectsNegativePrice(t *testing.T) {
	svc := NewProductService(newStubProductRepo())
	_, err := svc.Save(context.Background(), dto.SaveProductRequest{
		Name: "Latte", SKU: "LAT-01", Price: decimal.NewFromInt(-1),
	})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDeleteProductBlockedByReferences(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo)
	ctx := context.Background()

	referenced := repo.add("Latte", "LAT-01", decimal.NewFromInt(50))
	repo.refs[referenced.ID] = 3
	err := svc.Delete(ctx, referenced.ID)
	var re *ReferentialError
	require.ErrorAs(t, err, &re)
	assert.True(t, repo.products[referenced.ID].Active, "failed delete leaves the product untouched")

	off, err := svc.Deactivate(ctx, referenced.ID)
	require.NoError(t, err)
	assert.False(t, off.Active)

	orphan := repo.add("Test drink", "TST-01", decimal.NewFromInt(10))
	require.NoError(t, svc.Delete(ctx, orphan.ID))
	_, ok := repo.products[orphan.ID]
	assert.False(t, ok, "unreferenced product is removed")
}

func TestReactivateProduct(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo)
	ctx := context.Background()

	p := repo.add("Latte", "LAT-01", decimal.NewFromInt(50))
	_, err := svc.Deactivate(ctx, p.ID)
	require.NoError(t, err)

	back, err := svc.Reactivate(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, back.Active)
}
