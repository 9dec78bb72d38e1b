package service

import (
	"context"
	"errors"
	"time"

	"siwarapos/internal/dto"
	"siwarapos/internal/model"
	"siwarapos/internal/repository"
	"siwarapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShiftService interface {
	// Open starts a new drawer session. At most one shift may be open; a
	// second open attempt gets a ConflictError.
	Open(ctx context.Context, req dto.OpenShiftRequest) (*model.Shift, error)
	// Current returns the open shift, or NotFoundError when the drawer is closed.
	Current(ctx context.Context) (*model.Shift, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Shift, error)
	// RecordCashMovement appends one drawer event, normalizing the sign:
	// sale_cash/cash_in stay positive, cash_out/refund_cash/expense are
	// stored negative.
	RecordCashMovement(ctx context.Context, req dto.CashMovementRequest) (*model.CashMovement, error)
	// ExpectedCash = opening cash + sum of all drawer movements.
	ExpectedCash(ctx context.Context, shift *model.Shift) (decimal.Decimal, error)
	// Close reconciles the drawer: cash_diff = counted − expected. Closing
	// an already-closed shift is a ConflictError.
	Close(ctx context.Context, req dto.CloseShiftRequest) (*model.Shift, error)
	History(ctx context.Context, page, limit int) ([]model.Shift, int64, error)
}

type shiftService struct {
	repo       repository.ShiftRepository
	dispatcher *worker.Dispatcher
}

func NewShiftService(repo repository.ShiftRepository, dispatcher *worker.Dispatcher) ShiftService {
	return &shiftService{repo: repo, dispatcher: dispatcher}
}

func (s *shiftService) Open(ctx context.Context, req dto.OpenShiftRequest) (*model.Shift, error) {
	if req.OpeningCash.IsNegative() {
		return nil, NewValidation("opening cash cannot be negative")
	}

	if _, err := s.repo.FindOpen(ctx); err == nil {
		return nil, NewConflict("a shift is already open")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shift := &model.Shift{
		OpenedAt:    time.Now(),
		OpeningCash: round2(req.OpeningCash),
		Note:        req.Note,
	}
	if err := s.repo.Create(ctx, shift); err != nil {
		// Backstop: the partial unique index catches the race the
		// pre-check cannot see.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflict("a shift is already open")
		}
		return nil, err
	}

	log.Info().Str("shift_id", shift.ID.String()).
		Str("opening_cash", shift.OpeningCash.String()).Msg("shift opened")
	return shift, nil
}

func (s *shiftService) Current(ctx context.Context) (*model.Shift, error) {
	shift, err := s.repo.FindOpen(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "open shift"}
	}
	return shift, err
}

func (s *shiftService) Get(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	shift, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "shift"}
	}
	return shift, err
}

func (s *shiftService) RecordCashMovement(ctx context.Context, req dto.CashMovementRequest) (*model.CashMovement, error) {
	shift, err := s.Current(ctx)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, NewConflict("no open shift to record against")
		}
		return nil, err
	}

	amount := round2(req.Amount.Abs())
	if amount.IsZero() {
		return nil, NewValidation("amount must be positive")
	}
	switch req.TxnType {
	case model.TxnSaleCash, model.TxnCashIn:
	case model.TxnCashOut, model.TxnRefundCash, model.TxnExpense:
		amount = amount.Neg()
	default:
		return nil, NewValidation("unknown cash movement type %q", req.TxnType)
	}

	m := &model.CashMovement{
		ShiftID: shift.ID,
		Amount:  amount,
		TxnType: req.TxnType,
		Note:    req.Note,
	}
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		return nil, err
	}
	log.Info().Str("shift_id", shift.ID.String()).Str("txn_type", req.TxnType).
		Str("amount", amount.String()).Msg("cash movement recorded")
	return m, nil
}

func (s *shiftService) ExpectedCash(ctx context.Context, shift *model.Shift) (decimal.Decimal, error) {
	sum, err := s.repo.SumMovements(ctx, shift.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return shift.OpeningCash.Add(sum), nil
}

func (s *shiftService) Close(ctx context.Context, req dto.CloseShiftRequest) (*model.Shift, error) {
	if req.CountedCash.IsNegative() {
		return nil, NewValidation("counted cash cannot be negative")
	}

	shift, err := s.Current(ctx)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, NewConflict("no open shift to close")
		}
		return nil, err
	}

	expected, err := s.ExpectedCash(ctx, shift)
	if err != nil {
		return nil, err
	}
	counted := round2(req.CountedCash)
	diff := round2(counted.Sub(expected))

	rows, err := s.repo.CloseCAS(ctx, shift.ID, time.Now(), counted, diff)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, NewConflict("shift was closed by another terminal")
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueShiftSummary(ctx, shift.ID); err != nil {
			log.Warn().Err(err).Str("shift_id", shift.ID.String()).Msg("failed to enqueue shift summary")
		}
	}

	log.Info().Str("shift_id", shift.ID.String()).
		Str("expected", expected.String()).Str("counted", counted.String()).
		Str("diff", diff.String()).Msg("shift closed")
	return s.Get(ctx, shift.ID)
}

func (s *shiftService) History(ctx context.Context, page, limit int) ([]model.Shift, int64, error) {
	return s.repo.History(ctx, page, limit)
}
