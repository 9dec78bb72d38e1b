package dto

import "github.com/shopspring/decimal"

// ReportFilter is bound from the query string of GET /v1/reports/sales.
type ReportFilter struct {
	From string `form:"from"` // YYYY-MM-DD; empty = today
	To   string `form:"to"`   // YYYY-MM-DD; empty = today
}

type MethodSum struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

type TopProduct struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type DayRow struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Bills   int             `json:"bills"`
	Sales   decimal.Decimal `json:"sales"`
	AvgBill decimal.Decimal `json:"avg_bill"`
}

// SalesReportResponse summarizes paid orders over a date range, keyed by
// paid_at. Voided and unpaid orders never count.
type SalesReportResponse struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Bills       int             `json:"bills"`
	Sales       decimal.Decimal `json:"sales"`
	AvgBill     decimal.Decimal `json:"avg_bill"`
	ByMethod    []MethodSum     `json:"by_method"`
	TopProducts []TopProduct    `json:"top_products"`
	ByDay       []DayRow        `json:"by_day"`
}
