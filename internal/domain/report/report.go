package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceivablesAgingRow buckets one customer's outstanding invoice balances
// by how far past due they are. Aging is computed from due dates at query
// time; invoices without a due date count as current.
type ReceivablesAgingRow struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Current      decimal.Decimal `json:"current"`
	Days1To30    decimal.Decimal `json:"days_1_30"`
	Days31To60   decimal.Decimal `json:"days_31_60"`
	Days61To90   decimal.Decimal `json:"days_61_90"`
	Over90       decimal.Decimal `json:"over_90"`
	Total        decimal.Decimal `json:"total"`
}

// SalesSummaryRow aggregates invoicing activity for one period
type SalesSummaryRow struct {
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	InvoiceCount     int64           `json:"invoice_count"`
	TotalInvoiced    decimal.Decimal `json:"total_invoiced"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// ExpenseBreakdownRow aggregates spending for one expense category
type ExpenseBreakdownRow struct {
	Category    string          `json:"category"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Repository defines the read-only SQL aggregates behind the reports
type Repository interface {
	ReceivablesAging(ctx context.Context, companyID uuid.UUID, asOf time.Time) ([]ReceivablesAgingRow, error)
	SalesSummary(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*SalesSummaryRow, error)
	ExpenseBreakdown(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]ExpenseBreakdownRow, error)
}
