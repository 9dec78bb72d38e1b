package service

// In-memory repository stubs for unit tests. DB() returns nil, which makes
// the transaction helper call straight through, so service logic runs
// without a database.

import (
	"context"
	"sort"
	"time"

	"siwarapos/internal/dto"
	"siwarapos/internal/model"
	"siwarapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ─── orders ──────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders   map[uuid.UUID]*model.Order
	payments []model.Payment
	seq      int64

	// failDeletePayments, when set, makes DeletePaymentsTx fail so error
	// paths inside the unsettle transaction can be exercised.
	failDeletePayments error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Payments = nil
	for _, p := range r.payments {
		if p.OrderID == id {
			cp.Payments = append(cp.Payments, p)
		}
	}
	return &cp, nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter, from, to time.Time) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if !o.OpenedAt.Before(from) && !o.OpenedAt.After(to) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) ListBoard(_ context.Context, since time.Time) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.QueueStatus == model.QueueVoid || o.OpenedAt.Before(since) {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out, nil
}

func (r *stubOrderRepo) ListPaidBetween(_ context.Context, from, to time.Time) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.PaymentStatus != model.PaymentPaid || o.PaidAt == nil {
			continue
		}
		if o.PaidAt.Before(from) || o.PaidAt.After(to) {
			continue
		}
		cp := *o
		for _, p := range r.payments {
			if p.OrderID == o.ID {
				cp.Payments = append(cp.Payments, p)
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.Before(*out[j].PaidAt) })
	return out, nil
}

func (r *stubOrderRepo) UpdateDiscount(_ context.Context, id uuid.UUID, discount, total decimal.Decimal) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.DiscountAmount = discount
	o.Total = total
	return nil
}

func (r *stubOrderRepo) AdvanceCAS(_ context.Context, id uuid.UUID, expected string, patch map[string]interface{}) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.QueueStatus != expected {
		return 0, nil
	}
	o.QueueStatus = patch["queue_status"].(string)
	if ts, ok := patch["started_at"].(time.Time); ok {
		o.StartedAt = &ts
	}
	if ts, ok := patch["done_at"].(time.Time); ok {
		o.DoneAt = &ts
	}
	return 1, nil
}

func (r *stubOrderRepo) SettleCAS(_ *gorm.DB, id uuid.UUID, method string, paidAt time.Time) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.PaymentStatus != model.PaymentUnpaid {
		return 0, nil
	}
	o.PaymentStatus = model.PaymentPaid
	o.PaidAt = &paidAt
	o.PaidMethod = &method
	return 1, nil
}

func (r *stubOrderRepo) UnsettleCAS(_ *gorm.DB, id uuid.UUID) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.PaymentStatus != model.PaymentPaid {
		return 0, nil
	}
	o.PaymentStatus = model.PaymentUnpaid
	o.PaidAt = nil
	o.PaidMethod = nil
	return 1, nil
}

func (r *stubOrderRepo) HasPayments(_ context.Context, orderID uuid.UUID) (bool, error) {
	for _, p := range r.payments {
		if p.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubOrderRepo) CreatePaymentTx(_ *gorm.DB, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *stubOrderRepo) DeletePaymentsTx(_ *gorm.DB, orderID uuid.UUID) error {
	if r.failDeletePayments != nil {
		return r.failDeletePayments
	}
	kept := r.payments[:0]
	for _, p := range r.payments {
		if p.OrderID != orderID {
			kept = append(kept, p)
		}
	}
	r.payments = kept
	return nil
}

func (r *stubOrderRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) NextTicketSeq(_ *gorm.DB) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

// ─── products ────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	refs     map[uuid.UUID]int64
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		refs:     make(map[uuid.UUID]int64),
	}
}

func (r *stubProductRepo) add(name, sku string, price decimal.Decimal) *model.Product {
	p := &model.Product{ID: uuid.New(), Name: name, SKU: sku, Price: price, Active: true}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Upsert(_ context.Context, p *model.Product) error {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			existing.Name = p.Name
			existing.Price = p.Price
			existing.Category = p.Category
			existing.Active = p.Active
			*p = *existing
			return nil
		}
	}
	return r.Create(context.Background(), p)
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) List(_ context.Context, active, _ string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		switch active {
		case "all":
		case "false":
			if p.Active {
				continue
			}
		default:
			if !p.Active {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = true
	}
	return nil
}

func (r *stubProductRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) CountReferences(_ context.Context, id uuid.UUID) (int64, error) {
	return r.refs[id], nil
}

// ─── ingredients ─────────────────────────────────────────────────────────────

type stubIngredientRepo struct {
	ingredients map[uuid.UUID]*model.Ingredient
}

func newStubIngredientRepo() *stubIngredientRepo {
	return &stubIngredientRepo{ingredients: make(map[uuid.UUID]*model.Ingredient)}
}

func (r *stubIngredientRepo) add(name, unit string, minLevel decimal.Decimal) *model.Ingredient {
	i := &model.Ingredient{ID: uuid.New(), Name: name, Unit: unit, MinLevel: minLevel, Active: true}
	r.ingredients[i.ID] = i
	return i
}

func (r *stubIngredientRepo) Create(_ context.Context, i *model.Ingredient) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.ingredients[i.ID] = i
	return nil
}

func (r *stubIngredientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ingredient, error) {
	i, ok := r.ingredients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubIngredientRepo) List(_ context.Context, activeOnly bool) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, i := range r.ingredients {
		if activeOnly && !i.Active {
			continue
		}
		out = append(out, *i)
	}
	return out, nil
}

func (r *stubIngredientRepo) Update(_ context.Context, i *model.Ingredient) error {
	r.ingredients[i.ID] = i
	return nil
}

func (r *stubIngredientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if i, ok := r.ingredients[id]; ok {
		i.Active = false
	}
	return nil
}

func (r *stubIngredientRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	delete(r.ingredients, id)
	return nil
}

// ─── inventory movements ─────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements   []model.InventoryMovement
	ingredients *stubIngredientRepo
}

func newStubMovementRepo(ingredients *stubIngredientRepo) *stubMovementRepo {
	return &stubMovementRepo{ingredients: ingredients}
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.InventoryMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.InventoryMovement) error {
	return r.Create(context.Background(), m)
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.InventoryMovement, int64, error) {
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if filter.IngredientID != "" && m.IngredientID.String() != filter.IngredientID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) SumByIngredient(_ context.Context, ingredientID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.IngredientID == ingredientID {
			sum = sum.Add(m.Qty)
		}
	}
	return sum, nil
}

func (r *stubMovementRepo) OnHandAll(ctx context.Context) ([]repository.OnHandRow, error) {
	var rows []repository.OnHandRow
	for _, i := range r.ingredients.ingredients {
		if !i.Active {
			continue
		}
		sum, _ := r.SumByIngredient(ctx, i.ID)
		rows = append(rows, repository.OnHandRow{
			IngredientID:    i.ID,
			Name:            i.Name,
			Unit:            i.Unit,
			MinLevel:        i.MinLevel,
			PurchaseUnit:    i.PurchaseUnit,
			BasePerPurchase: i.BasePerPurchase,
			OnHand:          sum,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func (r *stubMovementRepo) CountByIngredient(_ context.Context, ingredientID uuid.UUID) (int64, error) {
	var count int64
	for _, m := range r.movements {
		if m.IngredientID == ingredientID {
			count++
		}
	}
	return count, nil
}

// ─── recipes ─────────────────────────────────────────────────────────────────

type stubRecipeRepo struct {
	lines       []model.RecipeLine
	ingredients *stubIngredientRepo
}

func newStubRecipeRepo(ingredients *stubIngredientRepo) *stubRecipeRepo {
	return &stubRecipeRepo{ingredients: ingredients}
}

func (r *stubRecipeRepo) Replace(_ context.Context, productID uuid.UUID, lines []model.RecipeLine) error {
	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	for _, l := range lines {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		l.CreatedAt = time.Now()
		r.lines = append(r.lines, l)
	}
	return nil
}

func (r *stubRecipeRepo) hydrate(l model.RecipeLine) model.RecipeLine {
	if ing, ok := r.ingredients.ingredients[l.IngredientID]; ok {
		l.Ingredient = ing
	}
	return l
}

func (r *stubRecipeRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.RecipeLine, error) {
	var out []model.RecipeLine
	for _, l := range r.lines {
		if l.ProductID == productID {
			out = append(out, r.hydrate(l))
		}
	}
	return out, nil
}

func (r *stubRecipeRepo) ListByProducts(_ context.Context, productIDs []uuid.UUID) ([]model.RecipeLine, error) {
	want := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		want[id] = true
	}
	var out []model.RecipeLine
	for _, l := range r.lines {
		if want[l.ProductID] {
			out = append(out, r.hydrate(l))
		}
	}
	return out, nil
}

func (r *stubRecipeRepo) CountByIngredient(_ context.Context, ingredientID uuid.UUID) (int64, error) {
	var count int64
	for _, l := range r.lines {
		if l.IngredientID == ingredientID {
			count++
		}
	}
	return count, nil
}

// ─── shifts ──────────────────────────────────────────────────────────────────

type stubShiftRepo struct {
	shifts    map[uuid.UUID]*model.Shift
	movements []model.CashMovement
}

func newStubShiftRepo() *stubShiftRepo {
	return &stubShiftRepo{shifts: make(map[uuid.UUID]*model.Shift)}
}

func (r *stubShiftRepo) Create(_ context.Context, s *model.Shift) error {
	for _, existing := range r.shifts {
		if existing.ClosedAt == nil {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.shifts[s.ID] = &cp
	return nil
}

func (r *stubShiftRepo) FindOpen(_ context.Context) (*model.Shift, error) {
	for _, s := range r.shifts {
		if s.ClosedAt == nil {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubShiftRepo) FindOpenTx(_ *gorm.DB) (*model.Shift, error) {
	return r.FindOpen(context.Background())
}

func (r *stubShiftRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Movements = nil
	for _, m := range r.movements {
		if m.ShiftID == id {
			cp.Movements = append(cp.Movements, m)
		}
	}
	return &cp, nil
}

func (r *stubShiftRepo) CloseCAS(_ context.Context, id uuid.UUID, closedAt time.Time, closingCash, diff decimal.Decimal) (int64, error) {
	s, ok := r.shifts[id]
	if !ok || s.ClosedAt != nil {
		return 0, nil
	}
	s.ClosedAt = &closedAt
	s.ClosingCash = &closingCash
	s.CashDiff = &diff
	return 1, nil
}

func (r *stubShiftRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubShiftRepo) CreateMovementTx(_ *gorm.DB, m *model.CashMovement) error {
	return r.CreateMovement(context.Background(), m)
}

func (r *stubShiftRepo) ListMovements(_ context.Context, shiftID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.ShiftID == shiftID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubShiftRepo) SumMovements(_ context.Context, shiftID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.movements {
		if m.ShiftID == shiftID {
			sum = sum.Add(m.Amount)
		}
	}
	return sum, nil
}

func (r *stubShiftRepo) History(_ context.Context, _, _ int) ([]model.Shift, int64, error) {
	var out []model.Shift
	for _, s := range r.shifts {
		if s.ClosedAt != nil {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}
