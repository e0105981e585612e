package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormReportRepository_ReceivablesAging(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	customerID := uuid.New()
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	db := openTestDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormReportRepository(db)

	seed := func(t *testing.T, number string, dueDate *time.Time) *billing.Invoice {
		invoice, err := billing.NewInvoice(companyID, number, customerID, "Acme Corp", asOf.AddDate(0, -6, 0))
		require.NoError(t, err)
		require.NoError(t, invoice.SetLines([]billing.LineInput{productLine(t, "1", "100", "0")}))
		invoice.SetDueDate(dueDate)
		require.NoError(t, invoice.MarkSent())
		require.NoError(t, invoiceRepo.Save(ctx, invoice))
		return invoice
	}

	due := func(daysBefore int) *time.Time {
		d := asOf.AddDate(0, 0, -daysBefore)
		return &d
	}

	seed(t, "INV-2026-00001", due(-10)) // not yet due
	seed(t, "INV-2026-00002", nil)      // no due date counts as current
	seed(t, "INV-2026-00003", due(15))
	seed(t, "INV-2026-00004", due(45))
	seed(t, "INV-2026-00005", due(75))
	seed(t, "INV-2026-00006", due(120))
	settled := seed(t, "INV-2026-00007", due(120))
	require.NoError(t, settled.ApplyPayment(dec(t, "100")))
	require.NoError(t, invoiceRepo.Save(ctx, settled))

	rows, err := repo.ReceivablesAging(ctx, companyID, asOf)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, customerID, row.CustomerID)
	assert.True(t, row.Current.Equal(dec(t, "200")), "current %s", row.Current)
	assert.True(t, row.Days1To30.Equal(dec(t, "100")))
	assert.True(t, row.Days31To60.Equal(dec(t, "100")))
	assert.True(t, row.Days61To90.Equal(dec(t, "100")))
	assert.True(t, row.Over90.Equal(dec(t, "100")), "paid invoices are excluded")
	assert.True(t, row.Total.Equal(dec(t, "600")))
}

func TestGormReportRepository_SalesSummary(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	db := openTestDB(t)
	invoiceRepo := NewGormInvoiceRepository(db)
	repo := NewGormReportRepository(db)

	inPeriod := newTestInvoice(t, companyID, "INV-2026-00001", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, inPeriod.MarkSent())
	require.NoError(t, inPeriod.ApplyPayment(dec(t, "50")))
	require.NoError(t, invoiceRepo.Save(ctx, inPeriod))

	cancelled := newTestInvoice(t, companyID, "INV-2026-00002", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, invoiceRepo.Save(ctx, cancelled))

	outside := newTestInvoice(t, companyID, "INV-2026-00003", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, invoiceRepo.Save(ctx, outside))

	summary, err := repo.SalesSummary(ctx, companyID, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.InvoiceCount)
	assert.True(t, summary.TotalInvoiced.Equal(dec(t, "200")))
	assert.True(t, summary.TotalPaid.Equal(dec(t, "50")))
	assert.True(t, summary.TotalOutstanding.Equal(dec(t, "150")))
}

func TestGormReportRepository_ExpenseBreakdown(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	db := openTestDB(t)
	expenseRepo := NewGormExpenseRepository(db)
	repo := NewGormReportRepository(db)

	seedExpense := func(t *testing.T, db *gorm.DB, number, category, amount string, void bool) {
		t.Helper()
		expense, err := billing.NewExpense(companyID, number, category, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NoError(t, expense.SetLines([]billing.LineInput{productLine(t, "1", amount, "0")}))
		if void {
			require.NoError(t, expense.Void())
		}
		require.NoError(t, expenseRepo.Save(ctx, expense))
	}

	seedExpense(t, db, "EXP-2026-00001", "Travel", "120", false)
	seedExpense(t, db, "EXP-2026-00002", "Travel", "80", false)
	seedExpense(t, db, "EXP-2026-00003", "Office", "40", false)
	seedExpense(t, db, "EXP-2026-00004", "Office", "500", true)

	rows, err := repo.ExpenseBreakdown(ctx, companyID, from, to)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Travel", rows[0].Category)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.True(t, rows[0].TotalAmount.Equal(dec(t, "200")))

	assert.Equal(t, "Office", rows[1].Category)
	assert.Equal(t, int64(1), rows[1].Count, "voided expenses are excluded")
	assert.True(t, rows[1].TotalAmount.Equal(dec(t, "40")))
}
