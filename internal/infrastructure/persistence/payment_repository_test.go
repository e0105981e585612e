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
	"gorm.io/gorm"
)

func seedPaymentFixture(t *testing.T, db *gorm.DB, companyID, customerID uuid.UUID) (*billing.Invoice, *billing.Invoice) {
	t.Helper()
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	newInvoice := func(number string, date time.Time) *billing.Invoice {
		invoice, err := billing.NewInvoice(companyID, number, customerID, "Acme Corp", date)
		require.NoError(t, err)
		require.NoError(t, invoice.SetLines([]billing.LineInput{productLine(t, "1", "200", "10")}))
		require.NoError(t, invoice.MarkSent())
		require.NoError(t, repo.Save(ctx, invoice))
		return invoice
	}

	first := newInvoice("INV-2026-00001", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	second := newInvoice("INV-2026-00002", time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC))
	return first, second
}

func TestGormPaymentRepository_SaveAllocation(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	customerID := uuid.New()
	methodID := uuid.New()
	paymentDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("persists payment, allocations and invoice balances atomically", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewGormPaymentRepository(db)
		invoiceRepo := NewGormInvoiceRepository(db)

		first, second := seedPaymentFixture(t, db, companyID, customerID)

		payment, err := billing.NewPayment(companyID, customerID, methodID, paymentDate, "March settlement")
		require.NoError(t, err)
		require.NoError(t, payment.Allocate(first, dec(t, "220")))
		require.NoError(t, payment.Allocate(second, dec(t, "100")))
		require.NoError(t, payment.Finalize())

		require.NoError(t, repo.SaveAllocation(ctx, payment, []*billing.Invoice{first, second}))

		saved, err := repo.FindByID(ctx, companyID, payment.ID)
		require.NoError(t, err)
		assert.True(t, saved.Amount.Equal(dec(t, "320")))
		require.Len(t, saved.Allocations, 2)

		savedFirst, err := invoiceRepo.FindByID(ctx, companyID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, savedFirst.Status)
		assert.True(t, savedFirst.BalanceDue().IsZero())

		savedSecond, err := invoiceRepo.FindByID(ctx, companyID, second.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPartiallyPaid, savedSecond.Status)
		assert.True(t, savedSecond.BalanceDue().Equal(dec(t, "120")))
	})

	t.Run("payment is invisible when the transaction rolls back", func(t *testing.T) {
		db := openTestDB(t)
		repo := NewGormPaymentRepository(db)

		first, _ := seedPaymentFixture(t, db, companyID, customerID)

		payment, err := billing.NewPayment(companyID, customerID, methodID, paymentDate, "")
		require.NoError(t, err)
		require.NoError(t, payment.Allocate(first, dec(t, "50")))

		// Force a failure after the payment insert by dropping the
		// allocations table out from under the transaction.
		require.NoError(t, db.Migrator().DropTable(&billing.PaymentAllocation{}))

		err = repo.SaveAllocation(ctx, payment, []*billing.Invoice{first})
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&billing.Payment{}).Count(&count).Error)
		assert.Zero(t, count, "payment header must not survive a failed allocation write")
	})
}

func TestGormPaymentRepository_ListByCustomer(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	customerID := uuid.New()
	methodID := uuid.New()

	db := openTestDB(t)
	repo := NewGormPaymentRepository(db)
	first, second := seedPaymentFixture(t, db, companyID, customerID)

	for i, invoice := range []*billing.Invoice{first, second} {
		paymentDate := time.Date(2026, 3, i+1, 0, 0, 0, 0, time.UTC)
		payment, err := billing.NewPayment(companyID, customerID, methodID, paymentDate, fmt.Sprintf("payment %d", i+1))
		require.NoError(t, err)
		require.NoError(t, payment.Allocate(invoice, dec(t, "10")))
		require.NoError(t, repo.SaveAllocation(ctx, payment, []*billing.Invoice{invoice}))
	}

	page, err := repo.ListByCustomer(ctx, companyID, customerID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	for _, payment := range page.Items {
		require.Len(t, payment.Allocations, 1)
	}

	t.Run("other customers see nothing", func(t *testing.T) {
		page, err := repo.ListByCustomer(ctx, companyID, uuid.New(), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, page.Total)
	})
}
