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

func newShiftService() (ShiftService, *stubShiftRepo) {
	repo := newStubShiftRepo()
	return NewShiftService(repo, nil), repo
}

func TestOpenShiftOnlyOnce(t *testing.T) {
	svc, _ := newShiftService()
	ctx := context.Background()

	shift, err := svc.Open(ctx, dto.OpenShiftRequest{OpeningCash: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.True(t, shift.OpeningCash.Equal(decimal.NewFromInt(1000)))

	_, err = svc.Open(ctx, dto.OpenShiftRequest{OpeningCash: decimal.NewFromInt(500)})
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestOpenShiftRejectsNegativeFloat(t *testing.T) {
	svc, _ := newShiftService()
	_, err := svc.Open(context.Background(), dto.OpenShiftRequest{OpeningCash: decimal.NewFromInt(-1)})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCashMovementSignNormalization(t *testing.T) {
	svc, repo := newShiftService()
	ctx := context.Background()
	_, err := svc.Open(ctx, dto.OpenShiftRequest{OpeningCash: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	in, err := svc.RecordCashMovement(ctx, dto.CashMovementRequest{
		TxnType: model.TxnCashIn, Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	assert.True(t, in.Amount.Equal(decimal.NewFromInt(200)))

	// Expense sent positive is stored negative.
	out, err := svc.RecordCashMovement(ctx, dto.CashMovementRequest{
		TxnType: model.TxnExpense, Amount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.True(t, out.Amount.Equal(decimal.NewFromInt(-50)), "amount = %s", out.Amount)

	require.Len(t, repo.movements, 2)
}

func TestCashMovementWithoutOpenShiftIsConflict(t *testing.T) {
	svc, _ := newShiftService()
	_, err := svc.RecordCashMovement(context.Background(), dto.CashMovementRequest{
		TxnType: model.TxnCashIn, Amount: decimal.NewFromInt(10),
	})
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestCloseShiftReconcilesDrawer(t *testing.T) {
	svc, _ := newShiftService()
	ctx := context.Background()

	// Open 1000, +200 in, -50 expense → expected 1150. Counted 1140 → -10.
	_, err := svc.Open(ctx, dto.OpenShiftRequest{OpeningCash: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = svc.RecordCashMovement(ctx, dto.CashMovementRequest{
		TxnType: model.TxnCashIn, Amount: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	_, err = svc.RecordCashMovement(ctx, dto.CashMovementRequest{
		TxnType: model.TxnExpense, Amount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	open, err := svc.Current(ctx)
	require.NoError(t, err)
	expected, err := svc.ExpectedCash(ctx, open)
	require.NoError(t, err)
	assert.True(t, expected.Equal(decimal.NewFromInt(1150)), "expected = %s", expected)

	closed, err := svc.Close(ctx, dto.CloseShiftRequest{CountedCash: decimal.NewFromInt(1140)})
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)
	require.NotNil(t, closed.CashDiff)
	assert.True(t, closed.CashDiff.Equal(decimal.NewFromInt(-10)), "diff = %s", closed.CashDiff)
	assert.True(t, closed.ClosingCash.Equal(decimal.NewFromInt(1140)))
}

func TestCloseWithoutOpenShiftIsConflict(t *testing.T) {
	svc, _ := newShiftService()
	_, err := svc.Close(context.Background(), dto.CloseShiftRequest{CountedCash: decimal.Zero})
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestClosedShiftTakesNoMoreMovements(t *testing.T) {
	svc, _ := newShiftService()
	ctx := context.Background()

	_, err := svc.Open(ctx, dto.OpenShiftRequest{OpeningCash: decimal.Zero})
	require.NoError(t, err)
	_, err = svc.Close(ctx, dto.CloseShiftRequest{CountedCash: decimal.Zero})
	require.NoError(t, err)

	_, err = svc.RecordCashMovement(ctx, dto.CashMovementRequest{
		TxnType: model.TxnCashIn, Amount: decimal.NewFromInt(10),
	})
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestReopenAfterCloseStartsFreshLedger(t *testing.T) {
	svc, _ := newShiftService()
	ctx := context.Background()

	_, err := svc.Open(ctx, dto.OpenShiftRequest{OpeningCash: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = svc.Close(ctx, dto.CloseShiftRequest{CountedCash: decimal.NewFromInt(100)})
	require.NoError(t, err)

	second, err := svc.Open(ctx, dto.OpenShiftRequest{OpeningCash: decimal.NewFromInt(300)})
	require.NoError(t, err)
	expected, err := svc.ExpectedCash(ctx, second)
	require.NoError(t, err)
	assert.True(t, expected.Equal(decimal.NewFromInt(300)))

	history, total, err := svc.History(ctx, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, history, 1)
}
