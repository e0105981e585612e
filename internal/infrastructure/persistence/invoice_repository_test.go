package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormInvoiceRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("round trips an invoice with its lines", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewGormInvoiceRepository(db)

		invoice := newTestInvoice(t, companyID, "INV-2026-00001", date)
		require.NoError(t, repo.Save(ctx, invoice))

		found, err := repo.FindByID(ctx, companyID, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-2026-00001", found.Number)
		assert.Equal(t, billing.InvoiceStatusDraft, found.Status)
		require.Len(t, found.Items, 1)
		assert.True(t, found.TotalAmount.Equal(dec(t, "200")), "total %s", found.TotalAmount)
		assert.True(t, found.TaxAmount.Equal(dec(t, "20")))
	})

	t.Run("replaces the full line set on resave", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewGormInvoiceRepository(db)

		invoice := newTestInvoice(t, companyID, "INV-2026-00001", date)
		require.NoError(t, repo.Save(ctx, invoice))

		require.NoError(t, invoice.SetLines([]billing.LineInput{
			productLine(t, "1", "50", "0"),
			productLine(t, "3", "25", "0"),
		}))
		require.NoError(t, repo.Save(ctx, invoice))

		found, err := repo.FindByID(ctx, companyID, invoice.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		assert.True(t, found.TotalAmount.Equal(dec(t, "125")))

		var lineCount int64
		require.NoError(t, db.Model(&billing.LineItem{}).Where("document_id = ?", invoice.ID).Count(&lineCount).Error)
		assert.Equal(t, int64(2), lineCount)
	})

	t.Run("is scoped by company", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewGormInvoiceRepository(db)

		invoice := newTestInvoice(t, companyID, "INV-2026-00001", date)
		require.NoError(t, repo.Save(ctx, invoice))

		_, err := repo.FindByID(ctx, uuid.New(), invoice.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects a duplicate number", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewGormInvoiceRepository(db)

		require.NoError(t, repo.Save(ctx, newTestInvoice(t, companyID, "INV-2026-00001", date)))
		err := repo.Save(ctx, newTestInvoice(t, companyID, "INV-2026-00001", date))
		assert.ErrorIs(t, err, shared.ErrDuplicateNumber)
	})
}

func TestGormInvoiceRepository_SaveConversion(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	buildAcceptedEstimate := func(t *testing.T) *billing.Estimate {
		estimate, err := billing.NewEstimate(companyID, "EST-2026-00001", uuid.New(), "Acme Corp", date)
		require.NoError(t, err)
		require.NoError(t, estimate.SetLines([]billing.LineInput{productLine(t, "2", "100", "10")}))
		require.NoError(t, estimate.MarkSent())
		require.NoError(t, estimate.Accept())
		return estimate
	}

	t.Run("persists invoice and converted estimate together", func(t *testing.T) {
		db := openTestDB(t)
		estimateRepo := NewGormEstimateRepository(db)
		invoiceRepo := NewGormInvoiceRepository(db)

		estimate := buildAcceptedEstimate(t)
		require.NoError(t, estimateRepo.Save(ctx, estimate))

		invoice, err := billing.NewInvoiceFromEstimate(estimate, "INV-2026-00001", date)
		require.NoError(t, err)
		require.NoError(t, estimate.MarkConverted(invoice.ID))

		require.NoError(t, invoiceRepo.SaveConversion(ctx, estimate, invoice))

		savedInvoice, err := invoiceRepo.FindByID(ctx, companyID, invoice.ID)
		require.NoError(t, err)
		require.NotNil(t, savedInvoice.EstimateID)
		assert.Equal(t, estimate.ID, *savedInvoice.EstimateID)
		require.Len(t, savedInvoice.Items, 1)

		savedEstimate, err := estimateRepo.FindByID(ctx, companyID, estimate.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.EstimateStatusConverted, savedEstimate.Status)
		require.NotNil(t, savedEstimate.InvoiceID)
		assert.Equal(t, invoice.ID, *savedEstimate.InvoiceID)
	})

	t.Run("rolls back the estimate when the invoice write fails", func(t *testing.T) {
		db := openTestDB(t)
		estimateRepo := NewGormEstimateRepository(db)
		invoiceRepo := NewGormInvoiceRepository(db)

		// An invoice already holds the number the conversion will try to use
		require.NoError(t, invoiceRepo.Save(ctx, newTestInvoice(t, companyID, "INV-2026-00001", date)))

		estimate := buildAcceptedEstimate(t)
		require.NoError(t, estimateRepo.Save(ctx, estimate))

		invoice, err := billing.NewInvoiceFromEstimate(estimate, "INV-2026-00001", date)
		require.NoError(t, err)
		require.NoError(t, estimate.MarkConverted(invoice.ID))

		err = invoiceRepo.SaveConversion(ctx, estimate, invoice)
		assert.ErrorIs(t, err, shared.ErrDuplicateNumber)

		savedEstimate, err := estimateRepo.FindByID(ctx, companyID, estimate.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.EstimateStatusAccepted, savedEstimate.Status)
		assert.Nil(t, savedEstimate.InvoiceID)
	})
}

func TestGormInvoiceRepository_FindOutstandingByCustomer(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	customerID := uuid.New()

	db := openTestDB(t)
	repo := NewGormInvoiceRepository(db)

	newCustomerInvoice := func(t *testing.T, number string, date time.Time) *billing.Invoice {
		invoice, err := billing.NewInvoice(companyID, number, customerID, "Acme Corp", date)
		require.NoError(t, err)
		require.NoError(t, invoice.SetLines([]billing.LineInput{productLine(t, "1", "100", "0")}))
		require.NoError(t, invoice.MarkSent())
		return invoice
	}

	older := newCustomerInvoice(t, "INV-2026-00001", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	newer := newCustomerInvoice(t, "INV-2026-00002", time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC))
	paid := newCustomerInvoice(t, "INV-2026-00003", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, paid.ApplyPayment(dec(t, "100")))

	for _, invoice := range []*billing.Invoice{newer, older, paid} {
		require.NoError(t, repo.Save(ctx, invoice))
	}

	outstanding, err := repo.FindOutstandingByCustomer(ctx, companyID, customerID)
	require.NoError(t, err)
	require.Len(t, outstanding, 2)
	assert.Equal(t, "INV-2026-00001", outstanding[0].Number, "oldest first")
	assert.Equal(t, "INV-2026-00002", outstanding[1].Number)
}

func TestGormInvoiceRepository_NextNumber(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	year := time.Now().Year()

	db := openTestDB(t)
	repo := NewGormInvoiceRepository(db)

	t.Run("starts at one for a fresh company", func(t *testing.T) {
		number, err := repo.NextNumber(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-00001", year), number)
	})

	t.Run("continues from the highest stored number", func(t *testing.T) {
		date := time.Date(year, 3, 10, 0, 0, 0, 0, time.UTC)
		seeded := newTestInvoice(t, companyID, fmt.Sprintf("INV-%d-00041", year), date)
		require.NoError(t, repo.Save(ctx, seeded))

		number, err := repo.NextNumber(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%d-00042", year), number)
	})
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	db := openTestDB(t)
	repo := NewGormInvoiceRepository(db)

	t.Run("removes the invoice and its lines", func(t *testing.T) {
		invoice := newTestInvoice(t, companyID, "INV-2026-00001", date)
		require.NoError(t, repo.Save(ctx, invoice))

		require.NoError(t, repo.Delete(ctx, companyID, invoice.ID))

		_, err := repo.FindByID(ctx, companyID, invoice.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var lineCount int64
		require.NoError(t, db.Model(&billing.LineItem{}).Where("document_id = ?", invoice.ID).Count(&lineCount).Error)
		assert.Zero(t, lineCount)
	})

	t.Run("returns not found for a missing invoice", func(t *testing.T) {
		err := repo.Delete(ctx, companyID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_List(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	db := openTestDB(t)
	repo := NewGormInvoiceRepository(db)

	for i := 1; i <= 5; i++ {
		date := time.Date(2026, 3, i, 0, 0, 0, 0, time.UTC)
		invoice := newTestInvoice(t, companyID, fmt.Sprintf("INV-2026-%05d", i), date)
		if i > 3 {
			require.NoError(t, invoice.MarkSent())
		}
		require.NoError(t, repo.Save(ctx, invoice))
	}

	t.Run("paginates", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		filter.OrderBy = "number"
		filter.OrderDir = "asc"

		page, err := repo.List(ctx, companyID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Total)
		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "INV-2026-00001", page.Items[0].Number)
	})

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = billing.InvoiceStatusSent

		page, err := repo.List(ctx, companyID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
	})

	t.Run("searches by number", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "00004"

		page, err := repo.List(ctx, companyID, filter)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "INV-2026-00004", page.Items[0].Number)
	})
}
