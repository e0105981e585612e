package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func buildSentInvoice(t *testing.T, companyID, customerID uuid.UUID, number string) billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(companyID, number, customerID, "Acme Corp", time.Now())
	require.NoError(t, err)
	productID := uuid.New()
	require.NoError(t, inv.SetLines([]billing.LineInput{
		{ProductID: &productID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(10)},
	}))
	require.NoError(t, inv.MarkSent())
	return *inv
}

type paymentServiceFixture struct {
	svc          *PaymentService
	paymentRepo  *MockPaymentRepository
	invoiceRepo  *MockInvoiceRepository
	methodRepo   *MockPaymentMethodRepository
	customerRepo *MockCustomerRepository
	companyID    uuid.UUID
	customer     *party.Customer
}

func newPaymentFixture(t *testing.T) *paymentServiceFixture {
	t.Helper()
	f := &paymentServiceFixture{
		paymentRepo:  new(MockPaymentRepository),
		invoiceRepo:  new(MockInvoiceRepository),
		methodRepo:   new(MockPaymentMethodRepository),
		customerRepo: new(MockCustomerRepository),
		companyID:    uuid.New(),
	}
	f.customer = newTestCustomer(t, f.companyID)
	f.customerRepo.On("FindByID", mock.Anything, f.companyID, f.customer.ID).Return(f.customer, nil)
	f.svc = NewPaymentService(f.paymentRepo, f.invoiceRepo, f.methodRepo, f.customerRepo, zap.NewNop())
	return f
}

func (f *paymentServiceFixture) withCheckMethod(t *testing.T) {
	t.Helper()
	method, err := billing.NewPaymentMethod(f.companyID, "Check")
	require.NoError(t, err)
	f.methodRepo.On("FindByName", mock.Anything, f.companyID, "Check").Return(method, nil)
}

func (f *paymentServiceFixture) withInvoices(invoices ...billing.Invoice) {
	f.invoiceRepo.On("FindByIDs", mock.Anything, f.companyID, mock.Anything).Return(invoices, nil)
}

func TestPaymentService_RecordPayment(t *testing.T) {
	t.Run("explicit amounts across two invoices", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.withCheckMethod(t)
		inv1 := buildSentInvoice(t, f.companyID, f.customer.ID, "INV-2026-00001")
		inv2 := buildSentInvoice(t, f.companyID, f.customer.ID, "INV-2026-00002")
		f.withInvoices(inv1, inv2)
		f.paymentRepo.On("SaveAllocation", mock.Anything, mock.AnythingOfType("*billing.Payment"), mock.Anything).Return(nil)

		a1, a2 := 150.0, 70.0
		resp, err := f.svc.RecordPayment(context.Background(), f.companyID, f.customer.ID, RecordPaymentRequest{
			PaymentDate:       "2026-08-28",
			PaymentMethodName: "Check",
			Allocations: []PaymentAllocationRequest{
				{InvoiceID: inv1.ID, Amount: &a1},
				{InvoiceID: inv2.ID, Amount: &a2},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 220.0, resp.Amount, "payment amount equals allocation sum")
		require.Len(t, resp.Allocations, 2)
		assert.Equal(t, "PARTIALLY_PAID", resp.Allocations[0].Status)
		assert.Equal(t, 70.0, resp.Allocations[0].BalanceDue)
		assert.Equal(t, "PARTIALLY_PAID", resp.Allocations[1].Status)
		assert.Equal(t, 150.0, resp.Allocations[1].BalanceDue)
		f.paymentRepo.AssertExpectations(t)
	})

	t.Run("nil amount defaults to full balance due", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.withCheckMethod(t)
		inv := buildSentInvoice(t, f.companyID, f.customer.ID, "INV-2026-00003")
		f.withInvoices(inv)
		f.paymentRepo.On("SaveAllocation", mock.Anything, mock.AnythingOfType("*billing.Payment"), mock.Anything).Return(nil)

		resp, err := f.svc.RecordPayment(context.Background(), f.companyID, f.customer.ID, RecordPaymentRequest{
			PaymentDate:       "2026-08-28",
			PaymentMethodName: "Check",
			Allocations:       []PaymentAllocationRequest{{InvoiceID: inv.ID}},
		})

		require.NoError(t, err)
		assert.Equal(t, 220.0, resp.Amount)
		assert.Equal(t, "PAID", resp.Allocations[0].Status)
		assert.Equal(t, 0.0, resp.Allocations[0].BalanceDue)
	})

	t.Run("full payment of two invoices marks both paid", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.withCheckMethod(t)
		inv1 := buildSentInvoice(t, f.companyID, f.customer.ID, "INV-2026-00010")
		inv2 := buildSentInvoice(t, f.companyID, f.customer.ID, "INV-2026-00011")
		f.withInvoices(inv1, inv2)
		f.paymentRepo.On("SaveAllocation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.RecordPayment(context.Background(), f.companyID, f.customer.ID, RecordPaymentRequest{
			PaymentDate:       "2026-08-28",
			PaymentMethodName: "Check",
			Allocations: []PaymentAllocationRequest{
				{InvoiceID: inv1.ID},
				{InvoiceID: inv2.ID},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 440.0, resp.Amount)
		for _, a := range resp.Allocations {
			assert.Equal(t, "PAID", a.Status)
			assert.Equal(t, 0.0, a.BalanceDue)
		}
	})

	t.Run("overpayment rejected with VALIDATION_ERROR and nothing persisted", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.withCheckMethod(t)
		inv := buildSentInvoice(t, f.companyID, f.customer.ID, "INV-2026-00004")
		f.withInvoices(inv)

		amount := 500.0
		_, err := f.svc.RecordPayment(context.Background(), f.companyID, f.customer.ID, RecordPaymentRequest{
			PaymentDate:       "2026-08-28",
			PaymentMethodName: "Check",
			Allocations:       []PaymentAllocationRequest{{InvoiceID: inv.ID, Amount: &amount}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		f.paymentRepo.AssertNotCalled(t, "SaveAllocation")
	})

	t.Run("zero allocations rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.svc.RecordPayment(context.Background(), f.companyID, f.customer.ID, RecordPaymentRequest{
			PaymentDate:       "2026-08-28",
			PaymentMethodName: "Check",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("missing payment method is created inline", func(t *testing.T) {
		f := newPaymentFixture(t)
		inv := buildSentInvoice(t, f.companyID, f.customer.ID, "INV-2026-00005")
		f.withInvoices(inv)
		f.methodRepo.On("FindByName", mock.Anything, f.companyID, "Venmo").Return(nil, shared.ErrNotFound)
		f.methodRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.PaymentMethod")).Return(nil)
		f.paymentRepo.On("SaveAllocation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.RecordPayment(context.Background(), f.companyID, f.customer.ID, RecordPaymentRequest{
			PaymentDate:       "2026-08-28",
			PaymentMethodName: "Venmo",
			Allocations:       []PaymentAllocationRequest{{InvoiceID: inv.ID}},
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.PaymentMethodID)
		f.methodRepo.AssertCalled(t, "Save", mock.Anything, mock.AnythingOfType("*billing.PaymentMethod"))
	})

	t.Run("duplicate invoice in allocations rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.withCheckMethod(t)
		inv := buildSentInvoice(t, f.companyID, f.customer.ID, "INV-2026-00006")

		amount := 10.0
		_, err := f.svc.RecordPayment(context.Background(), f.companyID, f.customer.ID, RecordPaymentRequest{
			PaymentDate:       "2026-08-28",
			PaymentMethodName: "Check",
			Allocations: []PaymentAllocationRequest{
				{InvoiceID: inv.ID, Amount: &amount},
				{InvoiceID: inv.ID, Amount: &amount},
			},
		})
		assert.Error(t, err)
	})

	t.Run("unknown invoice id rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		f.withCheckMethod(t)
		f.withInvoices() // repo returns no invoices

		_, err := f.svc.RecordPayment(context.Background(), f.companyID, f.customer.ID, RecordPaymentRequest{
			PaymentDate:       "2026-08-28",
			PaymentMethodName: "Check",
			Allocations:       []PaymentAllocationRequest{{InvoiceID: uuid.New()}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}
