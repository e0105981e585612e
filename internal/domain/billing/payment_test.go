package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayableInvoice(t *testing.T, companyID, customerID uuid.UUID, number string) *Invoice {
	t.Helper()
	inv, err := NewInvoice(companyID, number, customerID, "Acme Corp", time.Now())
	require.NoError(t, err)
	productID := uuid.New()
	require.NoError(t, inv.SetLines([]LineInput{
		{ProductID: &productID, Quantity: d("2"), UnitPrice: d("100"), TaxRate: d("10")},
	}))
	require.NoError(t, inv.MarkSent())
	return inv
}

func TestPayment_Allocate(t *testing.T) {
	companyID := uuid.New()
	customerID := uuid.New()

	t.Run("full payment of two invoices", func(t *testing.T) {
		inv1 := newPayableInvoice(t, companyID, customerID, "INV-2026-00001")
		inv2 := newPayableInvoice(t, companyID, customerID, "INV-2026-00002")

		p, err := NewPayment(companyID, customerID, uuid.New(), time.Now(), "")
		require.NoError(t, err)

		require.NoError(t, p.Allocate(inv1, inv1.BalanceDue()))
		require.NoError(t, p.Allocate(inv2, inv2.BalanceDue()))
		require.NoError(t, p.Finalize())

		assert.True(t, p.Amount.Equal(d("440")))
		assert.Len(t, p.Allocations, 2)
		assert.Equal(t, InvoiceStatusPaid, inv1.Status)
		assert.Equal(t, InvoiceStatusPaid, inv2.Status)
	})

	t.Run("partial allocation leaves invoice partially paid", func(t *testing.T) {
		inv := newPayableInvoice(t, companyID, customerID, "INV-2026-00003")
		p, err := NewPayment(companyID, customerID, uuid.New(), time.Now(), "")
		require.NoError(t, err)

		require.NoError(t, p.Allocate(inv, d("100")))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.True(t, inv.BalanceDue().Equal(d("120")))
		assert.True(t, p.Amount.Equal(d("100")))
	})

	t.Run("allocation above balance rejected without mutating payment", func(t *testing.T) {
		inv := newPayableInvoice(t, companyID, customerID, "INV-2026-00004")
		p, err := NewPayment(companyID, customerID, uuid.New(), time.Now(), "")
		require.NoError(t, err)

		err = p.Allocate(inv, d("500"))
		assert.Error(t, err)
		assert.Empty(t, p.Allocations)
		assert.True(t, p.Amount.IsZero())
		assert.True(t, inv.AmountPaid.IsZero())
	})

	t.Run("cross-customer invoice rejected", func(t *testing.T) {
		inv := newPayableInvoice(t, companyID, uuid.New(), "INV-2026-00005")
		p, err := NewPayment(companyID, customerID, uuid.New(), time.Now(), "")
		require.NoError(t, err)
		assert.Error(t, p.Allocate(inv, d("10")))
	})

	t.Run("cross-company invoice rejected", func(t *testing.T) {
		inv := newPayableInvoice(t, uuid.New(), customerID, "INV-2026-00006")
		p, err := NewPayment(companyID, customerID, uuid.New(), time.Now(), "")
		require.NoError(t, err)
		assert.Error(t, p.Allocate(inv, d("10")))
	})
}

func TestPayment_Finalize(t *testing.T) {
	t.Run("empty payment rejected", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), uuid.New(), uuid.New(), time.Now(), "")
		require.NoError(t, err)
		assert.Error(t, p.Finalize())
	})

	t.Run("amount always equals allocation sum", func(t *testing.T) {
		companyID := uuid.New()
		customerID := uuid.New()
		inv1 := newPayableInvoice(t, companyID, customerID, "INV-2026-00010")
		inv2 := newPayableInvoice(t, companyID, customerID, "INV-2026-00011")

		p, err := NewPayment(companyID, customerID, uuid.New(), time.Now(), "check #42")
		require.NoError(t, err)
		require.NoError(t, p.Allocate(inv1, d("75.25")))
		require.NoError(t, p.Allocate(inv2, d("24.75")))
		require.NoError(t, p.Finalize())

		sum := decimal.Zero
		for _, a := range p.Allocations {
			sum = sum.Add(a.Amount)
		}
		assert.True(t, p.Amount.Equal(sum))
	})
}

func TestNewPayment_Validation(t *testing.T) {
	_, err := NewPayment(uuid.New(), uuid.Nil, uuid.New(), time.Now(), "")
	assert.Error(t, err)
	_, err = NewPayment(uuid.New(), uuid.New(), uuid.Nil, time.Now(), "")
	assert.Error(t, err)
	_, err = NewPayment(uuid.New(), uuid.New(), uuid.New(), time.Time{}, "")
	assert.Error(t, err)
}

func TestNewPaymentMethod(t *testing.T) {
	m, err := NewPaymentMethod(uuid.New(), "  Check  ")
	require.NoError(t, err)
	assert.Equal(t, "Check", m.Name)
	assert.True(t, m.Active)

	m.Deactivate()
	assert.False(t, m.Active)

	_, err = NewPaymentMethod(uuid.New(), "")
	assert.Error(t, err)
}
