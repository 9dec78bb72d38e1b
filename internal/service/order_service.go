package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// Board visibility: tickets older than the horizon never show up, and
// finished tickets drop off the board after the linger window.
const (
	boardHorizon = 12 * time.Hour
	doneLinger   = 60 * time.Minute
)

// queueNext is the full edge set of the preparation state machine: each
// status moves one stage forward, and only finished tickets can be voided.
// Anything not listed here is an invalid transition.
var queueNext = map[string][]string{
	model.QueueQueued:    {model.QueuePreparing},
	model.QueuePreparing: {model.QueueDone},
	model.QueueDone:      {model.QueueVoid},
}

type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*model.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	// Advance moves the order along one queue edge, stamping the
	// corresponding timestamp. Lost races surface as ConflictError.
	Advance(ctx context.Context, id uuid.UUID, target string) (*model.Order, error)
	// ApplyDiscountPercent sets the discount from a percentage of the
	// subtotal. Out-of-range percentages are clamped to [0, 100].
	ApplyDiscountPercent(ctx context.Context, id uuid.UUID, percent decimal.Decimal) (*model.Order, error)
	// Settle marks the order paid exactly once. A repeat settle is a no-op
	// that returns the already-paid order unchanged.
	Settle(ctx context.Context, id uuid.UUID, req dto.SettleRequest) (*model.Order, error)
	Unsettle(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	QueueBoard(ctx context.Context, now time.Time) (*dto.QueueBoardResponse, error)
}

type orderService struct {
	repo         repository.OrderRepository
	productRepo  repository.ProductRepository
	recipeRepo   repository.RecipeRepository
	movementRepo repository.InventoryMovementRepository
	shiftRepo    repository.ShiftRepository
	dispatcher   *worker.Dispatcher

	consumeOnSettle bool
}

func NewOrderService(
	repo repository.OrderRepository,
	productRepo repository.ProductRepository,
	recipeRepo repository.RecipeRepository,
	movementRepo repository.InventoryMovementRepository,
	shiftRepo repository.ShiftRepository,
	dispatcher *worker.Dispatcher,
	consumeOnSettle bool,
) OrderService {
	return &orderService{
		repo:            repo,
		productRepo:     productRepo,
		recipeRepo:      recipeRepo,
		movementRepo:    movementRepo,
		shiftRepo:       shiftRepo,
		dispatcher:      dispatcher,
		consumeOnSettle: consumeOnSettle,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, NewValidation("order must have at least one item")
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Qty < 1 {
			return nil, NewValidation("item quantity must be at least 1")
		}
		pid, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, NewValidation("invalid product id %q", line.ProductID)
		}
		ids = append(ids, pid)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	now := time.Now()
	order := &model.Order{
		QueueStatus:    model.QueueQueued,
		PaymentStatus:  model.PaymentUnpaid,
		OpenedAt:       now,
		DiscountAmount: decimal.Zero,
		Note:           req.Note,
	}

	subtotal := decimal.Zero
	for i, line := range req.Items {
		p, ok := byID[ids[i]]
		if !ok {
			return nil, &NotFoundError{Entity: "product"}
		}
		if !p.Active {
			return nil, NewValidation("product %q is not on the menu", p.Name)
		}
		// Price snapshot: later price edits never touch this line.
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Qty)))
		order.Items = append(order.Items, model.OrderItem{
			ProductID: p.ID,
			Qty:       line.Qty,
			UnitPrice: p.Price,
			Subtotal:  lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	order.Subtotal = round2(subtotal)
	order.Total = order.Subtotal

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		seq, err := s.repo.NextTicketSeq(tx)
		if err != nil {
			return err
		}
		order.Code = fmt.Sprintf("S-%s-%04d", now.Format("20060102"), seq)
		return s.repo.Create(ctx, tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("order_id", order.ID.String()).Str("code", order.Code).
		Str("total", order.Total.String()).Msg("order created")
	return order, nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "order"}
	}
	return o, err
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	from, to := dayRange(filter.From, filter.To)
	return s.repo.List(ctx, filter, from, to)
}

// dayRange turns YYYY-MM-DD bounds into an inclusive timestamp window,
// defaulting both ends to today.
func dayRange(fromStr, toStr string) (time.Time, time.Time) {
	today := time.Now()
	from, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
	if err != nil {
		from = today
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
	if err != nil {
		to = today
	}
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local)
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, time.Local)
	return start, end
}

func (s *orderService) Advance(ctx context.Context, id uuid.UUID, target string) (*model.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range queueNext[order.QueueStatus] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, &InvalidTransitionError{From: order.QueueStatus, To: target}
	}
	if target == model.QueueVoid && order.PaymentStatus == model.PaymentPaid {
		return nil, NewConflict("order %s is paid; unsettle it before voiding", order.Code)
	}

	now := time.Now()
	patch := map[string]interface{}{"queue_status": target}
	switch target {
	case model.QueuePreparing:
		patch["started_at"] = now
	case model.QueueDone:
		patch["done_at"] = now
	}

	rows, err := s.repo.AdvanceCAS(ctx, id, order.QueueStatus, patch)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Someone else moved the ticket first.
		return nil, NewConflict("order %s changed status concurrently", order.Code)
	}

	log.Info().Str("order_id", id.String()).
		Str("from", order.QueueStatus).Str("to", target).Msg("order advanced")
	return s.Get(ctx, id)
}

func (s *orderService) ApplyDiscountPercent(ctx context.Context, id uuid.UUID, percent decimal.Decimal) (*model.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == model.PaymentPaid {
		return nil, NewConflict("order %s is already settled", order.Code)
	}
	if order.QueueStatus == model.QueueVoid {
		return nil, NewConflict("order %s is void", order.Code)
	}

	hundred := decimal.NewFromInt(100)
	if percent.LessThan(decimal.Zero) {
		percent = decimal.Zero
	}
	if percent.GreaterThan(hundred) {
		percent = hundred
	}

	discount := round2(order.Subtotal.Mul(percent).Div(hundred))
	total := order.Subtotal.Sub(discount)
	if total.LessThan(decimal.Zero) {
		total = decimal.Zero
	}

	if err := s.repo.UpdateDiscount(ctx, id, discount, total); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *orderService) Settle(ctx context.Context, id uuid.UUID, req dto.SettleRequest) (*model.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.QueueStatus == model.QueueVoid {
		return nil, NewConflict("order %s is void and cannot be settled", order.Code)
	}
	if order.PaymentStatus == model.PaymentPaid {
		// Settle is at-most-once: the second terminal gets the paid order
		// back without writing anything.
		return order, nil
	}

	now := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.SettleCAS(tx, id, req.Method, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Lost the race: the other settle already committed. Treated
			// as success below, nothing else to write here.
			return nil
		}

		if err := s.repo.CreatePaymentTx(tx, &model.Payment{
			OrderID: id,
			Method:  req.Method,
			Amount:  order.Total,
			PaidAt:  now,
		}); err != nil {
			return err
		}

		if req.Method == model.MethodCash {
			// The shift read shares this transaction, so the sale cannot
			// land on a drawer another terminal just closed.
			openShift, err := s.shiftRepo.FindOpenTx(tx)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if openShift != nil {
				if err := s.shiftRepo.CreateMovementTx(tx, &model.CashMovement{
					ShiftID: openShift.ID,
					Amount:  order.Total,
					TxnType: model.TxnSaleCash,
					RefID:   &id,
				}); err != nil {
					return err
				}
			}
		}

		if s.consumeOnSettle {
			if err := s.postConsumption(ctx, tx, order); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if req.Email != nil && *req.Email != "" && s.dispatcher != nil {
		if err := s.dispatcher.EnqueueReceiptEmail(ctx, id, *req.Email); err != nil {
			log.Warn().Err(err).Str("order_id", id.String()).Msg("failed to enqueue receipt email")
		}
	}

	log.Info().Str("order_id", id.String()).Str("method", req.Method).
		Str("amount", order.Total.String()).Msg("order settled")
	return s.Get(ctx, id)
}

// postConsumption writes the recipe's theoretical usage to the stock ledger
// as negative adjustments, one row per ingredient.
func (s *orderService) postConsumption(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	qtyByProduct := make(map[uuid.UUID]int, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
		qtyByProduct[item.ProductID] += item.Qty
	}

	lines, err := s.recipeRepo.ListByProducts(ctx, productIDs)
	if err != nil {
		return err
	}

	usage := make(map[uuid.UUID]decimal.Decimal)
	for _, line := range lines {
		qty := line.QtyPerUnit.Mul(decimal.NewFromInt(int64(qtyByProduct[line.ProductID])))
		usage[line.IngredientID] = usage[line.IngredientID].Add(qty)
	}

	for ingredientID, qty := range usage {
		if qty.IsZero() {
			continue
		}
		orderID := order.ID
		if err := s.movementRepo.CreateTx(tx, &model.InventoryMovement{
			IngredientID: ingredientID,
			Kind:         model.MoveAdjust,
			Qty:          qty.Neg().Round(3),
			Reason:       "consumption " + order.Code,
			RefID:        &orderID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *orderService) Unsettle(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != model.PaymentPaid {
		return nil, NewConflict("order %s is not settled", order.Code)
	}

	wasCash := order.PaidMethod != nil && *order.PaidMethod == model.MethodCash

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		rows, err := s.repo.UnsettleCAS(tx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return NewConflict("order %s is not settled", order.Code)
		}
		if err := s.repo.DeletePaymentsTx(tx, id); err != nil {
			return err
		}
		// The drawer ledger is append-only, so cash taken at settle comes
		// back out as an inverse entry rather than a deleted row.
		if wasCash {
			openShift, err := s.shiftRepo.FindOpenTx(tx)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if openShift != nil {
				return s.shiftRepo.CreateMovementTx(tx, &model.CashMovement{
					ShiftID: openShift.ID,
					Amount:  order.Total.Neg(),
					TxnType: model.TxnRefundCash,
					RefID:   &id,
				})
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("order_id", id.String()).Msg("order unsettled")
	return s.Get(ctx, id)
}

func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	has, err := s.repo.HasPayments(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return &ReferentialError{Msg: "order has recorded payments; unsettle it first"}
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.DeleteTx(tx, id)
	})
}

func (s *orderService) QueueBoard(ctx context.Context, now time.Time) (*dto.QueueBoardResponse, error) {
	orders, err := s.repo.ListBoard(ctx, now.Add(-boardHorizon))
	if err != nil {
		return nil, err
	}

	board := &dto.QueueBoardResponse{
		Queued:     []dto.QueueTicket{},
		Preparing:  []dto.QueueTicket{},
		DoneUnpaid: []dto.QueueTicket{},
		DonePaid:   []dto.QueueTicket{},
	}
	for _, o := range orders {
		ticket := toQueueTicket(o)
		switch o.QueueStatus {
		case model.QueueQueued:
			board.Queued = append(board.Queued, ticket)
		case model.QueuePreparing:
			board.Preparing = append(board.Preparing, ticket)
		case model.QueueDone:
			if o.DoneAt != nil && now.Sub(*o.DoneAt) > doneLinger {
				continue
			}
			if o.PaymentStatus == model.PaymentPaid {
				board.DonePaid = append(board.DonePaid, ticket)
			} else {
				board.DoneUnpaid = append(board.DoneUnpaid, ticket)
			}
		}
	}
	return board, nil
}

func toQueueTicket(o model.Order) dto.QueueTicket {
	parts := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		name := "?"
		if item.Product != nil {
			name = item.Product.Name
		}
		parts = append(parts, fmt.Sprintf("%s × %d", name, item.Qty))
	}
	return dto.QueueTicket{
		ID:        o.ID.String(),
		Code:      o.Code,
		Line:      strings.Join(parts, " • "),
		OpenedAt:  o.OpenedAt.Format(time.RFC3339),
		StartedAt: fmtTimePtr(o.StartedAt),
		DoneAt:    fmtTimePtr(o.DoneAt),
		PaidAt:    fmtTimePtr(o.PaidAt),
	}
}

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
