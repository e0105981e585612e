package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService allocates customer payments across outstanding invoices
type PaymentService struct {
	paymentRepo  billing.PaymentRepository
	invoiceRepo  billing.InvoiceRepository
	methodRepo   billing.PaymentMethodRepository
	customerRepo party.CustomerRepository
	logger       *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	invoiceRepo billing.InvoiceRepository,
	methodRepo billing.PaymentMethodRepository,
	customerRepo party.CustomerRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		invoiceRepo:  invoiceRepo,
		methodRepo:   methodRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// RecordPayment records a single payment event split across the selected
// invoices. Each allocation either names an explicit amount or defaults to
// the invoice's full balance due. The payment total is the sum of the
// allocations; an allocation above an invoice's balance is rejected.
// The payment, its allocations and every touched invoice are written in one
// transaction.
func (s *PaymentService) RecordPayment(ctx context.Context, companyID, customerID uuid.UUID, req RecordPaymentRequest) (*PaymentResponse, error) {
	if len(req.Allocations) == 0 {
		return nil, shared.NewValidationError("allocations", "at least one invoice is required")
	}

	customer, err := s.customerRepo.FindByID(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}

	paymentDate, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		return nil, err
	}

	method, err := s.resolvePaymentMethod(ctx, companyID, req.PaymentMethodName)
	if err != nil {
		return nil, err
	}

	payment, err := billing.NewPayment(companyID, customer.ID, method.ID, paymentDate, req.Notes)
	if err != nil {
		return nil, err
	}

	invoiceIDs := make([]uuid.UUID, 0, len(req.Allocations))
	seen := make(map[uuid.UUID]bool, len(req.Allocations))
	for _, a := range req.Allocations {
		if seen[a.InvoiceID] {
			return nil, shared.NewValidationError("allocations", fmt.Sprintf("invoice %s listed more than once", a.InvoiceID))
		}
		seen[a.InvoiceID] = true
		invoiceIDs = append(invoiceIDs, a.InvoiceID)
	}

	invoices, err := s.invoiceRepo.FindByIDs(ctx, companyID, invoiceIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*billing.Invoice, len(invoices))
	for i := range invoices {
		byID[invoices[i].ID] = &invoices[i]
	}

	touched := make([]*billing.Invoice, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		inv, ok := byID[a.InvoiceID]
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Invoice %s not found", a.InvoiceID))
		}

		amount := inv.BalanceDue()
		if a.Amount != nil {
			amount = decimal.NewFromFloat(*a.Amount)
		}
		if err := payment.Allocate(inv, amount); err != nil {
			return nil, err
		}
		touched = append(touched, inv)
	}

	if err := payment.Finalize(); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveAllocation(ctx, payment, touched); err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("company_id", companyID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.Int("invoices", len(touched)))

	resp := ToPaymentResponse(payment, touched)
	return &resp, nil
}

// Get returns one recorded payment
func (s *PaymentService) Get(ctx context.Context, companyID, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	invoiceIDs := make([]uuid.UUID, 0, len(payment.Allocations))
	for _, a := range payment.Allocations {
		invoiceIDs = append(invoiceIDs, a.InvoiceID)
	}
	invoices, err := s.invoiceRepo.FindByIDs(ctx, companyID, invoiceIDs)
	if err != nil {
		return nil, err
	}
	refs := make([]*billing.Invoice, 0, len(invoices))
	for i := range invoices {
		refs = append(refs, &invoices[i])
	}

	resp := ToPaymentResponse(payment, refs)
	return &resp, nil
}

// ListByCustomer returns a page of the customer's payments
func (s *PaymentService) ListByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[PaymentResponse], error) {
	page, err := s.paymentRepo.ListByCustomer(ctx, companyID, customerID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToPaymentResponse(&page.Items[i], nil))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// resolvePaymentMethod finds the method by name, creating it inline when
// it does not exist yet.
func (s *PaymentService) resolvePaymentMethod(ctx context.Context, companyID uuid.UUID, name string) (*billing.PaymentMethod, error) {
	if name == "" {
		return nil, shared.NewValidationError("payment_method", "is required")
	}

	method, err := s.methodRepo.FindByName(ctx, companyID, name)
	if err == nil {
		return method, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	method, err = billing.NewPaymentMethod(companyID, name)
	if err != nil {
		return nil, err
	}
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}
