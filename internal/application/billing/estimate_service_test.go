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

func newTestCustomer(t *testing.T, companyID uuid.UUID) *party.Customer {
	t.Helper()
	c, err := party.NewCustomer(companyID, "Acme Corp")
	require.NoError(t, err)
	return c
}

func buildEstimate(t *testing.T, companyID uuid.UUID, customerID uuid.UUID) *billing.Estimate {
	t.Helper()
	est, err := billing.NewEstimate(companyID, "EST-2026-00001", customerID, "Acme Corp", time.Now())
	require.NoError(t, err)
	productID := uuid.New()
	require.NoError(t, est.SetLines([]billing.LineInput{
		{ProductID: &productID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(10)},
	}))
	return est
}

func TestEstimateService_Create(t *testing.T) {
	companyID := uuid.New()
	productID := uuid.New()

	t.Run("creates estimate with generated number", func(t *testing.T) {
		estimateRepo := new(MockEstimateRepository)
		customerRepo := new(MockCustomerRepository)
		customer := newTestCustomer(t, companyID)

		customerRepo.On("FindByID", mock.Anything, companyID, customer.ID).Return(customer, nil)
		estimateRepo.On("NextNumber", mock.Anything, companyID).Return("EST-2026-00042", nil)
		estimateRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Estimate")).Return(nil)

		svc := NewEstimateService(estimateRepo, new(MockInvoiceRepository), customerRepo, zap.NewNop())
		resp, err := svc.Create(context.Background(), companyID, CreateEstimateRequest{
			CustomerID: customer.ID,
			Date:       "2026-08-28",
			Items: []LineItemRequest{
				{ProductID: &productID, Quantity: 2, UnitPrice: 100, TaxRate: 10},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "EST-2026-00042", resp.Number)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, 200.0, resp.Subtotal)
		assert.Equal(t, 20.0, resp.TaxAmount)
		assert.Equal(t, 220.0, resp.TotalAmount)
		estimateRepo.AssertExpectations(t)
	})

	t.Run("unknown customer rejected before any write", func(t *testing.T) {
		estimateRepo := new(MockEstimateRepository)
		customerRepo := new(MockCustomerRepository)
		customerID := uuid.New()

		customerRepo.On("FindByID", mock.Anything, companyID, customerID).Return(nil, shared.ErrNotFound)

		svc := NewEstimateService(estimateRepo, new(MockInvoiceRepository), customerRepo, zap.NewNop())
		_, err := svc.Create(context.Background(), companyID, CreateEstimateRequest{
			CustomerID: customerID,
			Date:       "2026-08-28",
			Items:      []LineItemRequest{{ProductID: &productID, Quantity: 1, UnitPrice: 10}},
		})

		assert.Error(t, err)
		estimateRepo.AssertNotCalled(t, "Save")
	})

	t.Run("invalid date rejected", func(t *testing.T) {
		estimateRepo := new(MockEstimateRepository)
		customerRepo := new(MockCustomerRepository)
		customer := newTestCustomer(t, companyID)
		customerRepo.On("FindByID", mock.Anything, companyID, customer.ID).Return(customer, nil)

		svc := NewEstimateService(estimateRepo, new(MockInvoiceRepository), customerRepo, zap.NewNop())
		_, err := svc.Create(context.Background(), companyID, CreateEstimateRequest{
			CustomerID: customer.ID,
			Date:       "08/28/2026",
			Items:      []LineItemRequest{{ProductID: &productID, Quantity: 1, UnitPrice: 10}},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})
}

func TestEstimateService_Convert(t *testing.T) {
	companyID := uuid.New()
	customerID := uuid.New()

	t.Run("converts estimate into invoice in one transaction", func(t *testing.T) {
		estimateRepo := new(MockEstimateRepository)
		invoiceRepo := new(MockInvoiceRepository)
		est := buildEstimate(t, companyID, customerID)
		expiry := time.Now().Add(14 * 24 * time.Hour)
		est.SetExpiryDate(&expiry)

		estimateRepo.On("FindByID", mock.Anything, companyID, est.ID).Return(est, nil)
		invoiceRepo.On("NextNumber", mock.Anything, companyID).Return("INV-2026-00042", nil)
		invoiceRepo.On("SaveConversion", mock.Anything, est, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		svc := NewEstimateService(estimateRepo, invoiceRepo, new(MockCustomerRepository), zap.NewNop())
		resp, err := svc.Convert(context.Background(), companyID, est.ID)

		require.NoError(t, err)
		assert.Equal(t, "INV-2026-00042", resp.Number)
		assert.Equal(t, customerID, resp.CustomerID)
		require.NotNil(t, resp.DueDate)
		assert.Equal(t, expiry.Format("2006-01-02"), *resp.DueDate)
		// Estimate total (tax folded into lines) equals the recomputed invoice total.
		assert.Equal(t, est.TotalAmount.InexactFloat64(), resp.TotalAmount)
		assert.True(t, est.IsConverted())
		require.NotNil(t, est.InvoiceID)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("second conversion fails with ALREADY_CONVERTED and writes nothing", func(t *testing.T) {
		estimateRepo := new(MockEstimateRepository)
		invoiceRepo := new(MockInvoiceRepository)
		est := buildEstimate(t, companyID, customerID)
		require.NoError(t, est.MarkConverted(uuid.New()))

		estimateRepo.On("FindByID", mock.Anything, companyID, est.ID).Return(est, nil)
		invoiceRepo.On("NextNumber", mock.Anything, companyID).Return("INV-2026-00043", nil)

		svc := NewEstimateService(estimateRepo, invoiceRepo, new(MockCustomerRepository), zap.NewNop())
		_, err := svc.Convert(context.Background(), companyID, est.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_CONVERTED", domainErr.Code)
		invoiceRepo.AssertNotCalled(t, "SaveConversion")
	})

	t.Run("missing estimate", func(t *testing.T) {
		estimateRepo := new(MockEstimateRepository)
		id := uuid.New()
		estimateRepo.On("FindByID", mock.Anything, companyID, id).Return(nil, shared.ErrNotFound)

		svc := NewEstimateService(estimateRepo, new(MockInvoiceRepository), new(MockCustomerRepository), zap.NewNop())
		_, err := svc.Convert(context.Background(), companyID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestEstimateService_Delete(t *testing.T) {
	companyID := uuid.New()

	t.Run("converted estimate cannot be deleted", func(t *testing.T) {
		estimateRepo := new(MockEstimateRepository)
		est := buildEstimate(t, companyID, uuid.New())
		require.NoError(t, est.MarkConverted(uuid.New()))
		estimateRepo.On("FindByID", mock.Anything, companyID, est.ID).Return(est, nil)

		svc := NewEstimateService(estimateRepo, new(MockInvoiceRepository), new(MockCustomerRepository), zap.NewNop())
		err := svc.Delete(context.Background(), companyID, est.ID)
		assert.Error(t, err)
		estimateRepo.AssertNotCalled(t, "Delete")
	})
}
