package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// agingInvoice is the projection used to bucket outstanding balances
type agingInvoice struct {
	CustomerID   uuid.UUID
	CustomerName string
	DueDate      *time.Time
	Balance      decimal.Decimal
}

// ReceivablesAging buckets each customer's outstanding invoice balances by
// days past due. Bucketing runs in Go so the decimal balances keep exact
// precision; invoices without a due date count as current.
func (r *GormReportRepository) ReceivablesAging(ctx context.Context, companyID uuid.UUID, asOf time.Time) ([]report.ReceivablesAgingRow, error) {
	var invoices []agingInvoice
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("customer_id, customer_name, due_date, total_amount - amount_paid AS balance").
		Where("company_id = ? AND status IN ? AND total_amount > amount_paid", companyID, payableStatuses).
		Order("customer_name ASC").
		Scan(&invoices).Error
	if err != nil {
		return nil, err
	}

	rows := make([]report.ReceivablesAgingRow, 0)
	index := make(map[uuid.UUID]int)

	for _, inv := range invoices {
		i, ok := index[inv.CustomerID]
		if !ok {
			i = len(rows)
			index[inv.CustomerID] = i
			rows = append(rows, report.ReceivablesAgingRow{
				CustomerID:   inv.CustomerID,
				CustomerName: inv.CustomerName,
				Current:      decimal.Zero,
				Days1To30:    decimal.Zero,
				Days31To60:   decimal.Zero,
				Days61To90:   decimal.Zero,
				Over90:       decimal.Zero,
				Total:        decimal.Zero,
			})
		}

		row := &rows[i]
		switch days := daysPastDue(inv.DueDate, asOf); {
		case days <= 0:
			row.Current = row.Current.Add(inv.Balance)
		case days <= 30:
			row.Days1To30 = row.Days1To30.Add(inv.Balance)
		case days <= 60:
			row.Days31To60 = row.Days31To60.Add(inv.Balance)
		case days <= 90:
			row.Days61To90 = row.Days61To90.Add(inv.Balance)
		default:
			row.Over90 = row.Over90.Add(inv.Balance)
		}
		row.Total = row.Total.Add(inv.Balance)
	}

	return rows, nil
}

// SalesSummary aggregates invoicing activity over the given period.
// Cancelled invoices are excluded.
func (r *GormReportRepository) SalesSummary(ctx context.Context, companyID uuid.UUID, from, to time.Time) (*report.SalesSummaryRow, error) {
	var agg struct {
		InvoiceCount  int64
		TotalInvoiced decimal.Decimal
		TotalPaid     decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("COUNT(*) AS invoice_count, COALESCE(SUM(total_amount), 0) AS total_invoiced, COALESCE(SUM(amount_paid), 0) AS total_paid").
		Where("company_id = ? AND status <> ? AND date >= ? AND date <= ?",
			companyID, billing.InvoiceStatusCancelled, from, to).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	return &report.SalesSummaryRow{
		PeriodStart:      from,
		PeriodEnd:        to,
		InvoiceCount:     agg.InvoiceCount,
		TotalInvoiced:    agg.TotalInvoiced,
		TotalPaid:        agg.TotalPaid,
		TotalOutstanding: agg.TotalInvoiced.Sub(agg.TotalPaid),
	}, nil
}

// ExpenseBreakdown aggregates recorded spending by category over the period
func (r *GormReportRepository) ExpenseBreakdown(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]report.ExpenseBreakdownRow, error) {
	var rows []report.ExpenseBreakdownRow
	err := r.db.WithContext(ctx).
		Model(&billing.Expense{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount").
		Where("company_id = ? AND status = ? AND date >= ? AND date <= ?",
			companyID, billing.ExpenseStatusRecorded, from, to).
		Group("category").
		Order("total_amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// daysPastDue returns whole days elapsed since the due date. Zero or
// negative means not yet due.
func daysPastDue(dueDate *time.Time, asOf time.Time) int {
	if dueDate == nil {
		return 0
	}
	return int(asOf.Sub(*dueDate).Hours() / 24)
}

var _ report.Repository = (*GormReportRepository)(nil)
