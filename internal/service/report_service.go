package service

import (
	"context"
	"sort"

	"siwarapos/internal/dto"
	"siwarapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const topProductsLimit = 15

type ReportService interface {
	// Sales summarizes paid orders over an inclusive date range keyed on
	// paid_at. Voided and unpaid orders never count.
	Sales(ctx context.Context, filter dto.ReportFilter) (*dto.SalesReportResponse, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

func (s *reportService) Sales(ctx context.Context, filter dto.ReportFilter) (*dto.SalesReportResponse, error) {
	from, to := dayRange(filter.From, filter.To)
	orders, err := s.orderRepo.ListPaidBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.SalesReportResponse{
		From:        from.Format("2006-01-02"),
		To:          to.Format("2006-01-02"),
		Sales:       decimal.Zero,
		AvgBill:     decimal.Zero,
		ByMethod:    []dto.MethodSum{},
		TopProducts: []dto.TopProduct{},
		ByDay:       []dto.DayRow{},
	}

	byMethod := make(map[string]decimal.Decimal)
	type prodAgg struct {
		name    string
		qty     int
		revenue decimal.Decimal
	}
	byProduct := make(map[uuid.UUID]*prodAgg)
	type dayAgg struct {
		bills int
		sales decimal.Decimal
	}
	byDay := make(map[string]*dayAgg)

	for _, o := range orders {
		resp.Bills++
		resp.Sales = resp.Sales.Add(o.Total)

		// The payment ledger is authoritative for method splits; the header
		// method is the fallback for rows settled before the ledger existed.
		if len(o.Payments) > 0 {
			for _, p := range o.Payments {
				byMethod[p.Method] = byMethod[p.Method].Add(p.Amount)
			}
		} else if o.PaidMethod != nil {
			byMethod[*o.PaidMethod] = byMethod[*o.PaidMethod].Add(o.Total)
		}

		for _, item := range o.Items {
			a, ok := byProduct[item.ProductID]
			if !ok {
				a = &prodAgg{}
				if item.Product != nil {
					a.name = item.Product.Name
				}
				byProduct[item.ProductID] = a
			}
			a.qty += item.Qty
			a.revenue = a.revenue.Add(item.Subtotal)
		}

		if o.PaidAt != nil {
			day := o.PaidAt.Format("2006-01-02")
			d, ok := byDay[day]
			if !ok {
				d = &dayAgg{}
				byDay[day] = d
			}
			d.bills++
			d.sales = d.sales.Add(o.Total)
		}
	}

	if resp.Bills > 0 {
		resp.AvgBill = resp.Sales.Div(decimal.NewFromInt(int64(resp.Bills))).Round(2)
	}

	for method, amount := range byMethod {
		resp.ByMethod = append(resp.ByMethod, dto.MethodSum{Method: method, Amount: amount})
	}
	sort.Slice(resp.ByMethod, func(i, j int) bool {
		return resp.ByMethod[i].Amount.GreaterThan(resp.ByMethod[j].Amount)
	})

	for id, a := range byProduct {
		resp.TopProducts = append(resp.TopProducts, dto.TopProduct{
			ProductID: id.String(),
			Name:      a.name,
			Qty:       a.qty,
			Revenue:   a.revenue,
		})
	}
	sort.Slice(resp.TopProducts, func(i, j int) bool {
		if resp.TopProducts[i].Qty != resp.TopProducts[j].Qty {
			return resp.TopProducts[i].Qty > resp.TopProducts[j].Qty
		}
		return resp.TopProducts[i].Revenue.GreaterThan(resp.TopProducts[j].Revenue)
	})
	if len(resp.TopProducts) > topProductsLimit {
		resp.TopProducts = resp.TopProducts[:topProductsLimit]
	}

	for day, d := range byDay {
		avg := decimal.Zero
		if d.bills > 0 {
			avg = d.sales.Div(decimal.NewFromInt(int64(d.bills))).Round(2)
		}
		resp.ByDay = append(resp.ByDay, dto.DayRow{
			Date:    day,
			Bills:   d.bills,
			Sales:   d.sales,
			AvgBill: avg,
		})
	}
	sort.Slice(resp.ByDay, func(i, j int) bool { return resp.ByDay[i].Date < resp.ByDay[j].Date })

	return resp, nil
}
