package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo party.CustomerRepository
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo party.CustomerRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new invoice from a submission
func (s *InvoiceService) Create(ctx context.Context, companyID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	inv, err := billing.NewInvoice(companyID, number, customer.ID, customer.Name, date)
	if err != nil {
		return nil, err
	}

	if err := s.applyRequest(inv, req); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.String("company_id", companyID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", inv.Number))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Update replaces an invoice's header and full line set
func (s *InvoiceService) Update(ctx context.Context, companyID, id uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != inv.CustomerID {
		customer, err := s.customerRepo.FindByID(ctx, companyID, req.CustomerID)
		if err != nil {
			return nil, err
		}
		inv.CustomerID = customer.ID
		inv.CustomerName = customer.Name
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	inv.Date = date

	if err := s.applyRequest(inv, req); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Get returns one invoice
func (s *InvoiceService) Get(ctx context.Context, companyID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List returns a page of invoices
func (s *InvoiceService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[InvoiceResponse], error) {
	page, err := s.invoiceRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToInvoiceResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// ListOutstanding returns the customer's invoices with a positive balance due
func (s *InvoiceService) ListOutstanding(ctx context.Context, companyID, customerID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindOutstandingByCustomer(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceResponse(&invoices[i]))
	}
	return items, nil
}

// Delete removes an invoice and its lines
func (s *InvoiceService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !inv.AmountPaid.IsZero() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete an invoice with payments applied")
	}
	return s.invoiceRepo.Delete(ctx, companyID, id)
}

// MarkSent transitions the invoice to sent
func (s *InvoiceService) MarkSent(ctx context.Context, companyID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, companyID, id, (*billing.Invoice).MarkSent)
}

// Cancel voids an unpaid invoice
func (s *InvoiceService) Cancel(ctx context.Context, companyID, id uuid.UUID) (*InvoiceResponse, error) {
	return s.mutate(ctx, companyID, id, (*billing.Invoice).Cancel)
}

func (s *InvoiceService) mutate(ctx context.Context, companyID, id uuid.UUID, fn func(*billing.Invoice) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) applyRequest(inv *billing.Invoice, req CreateInvoiceRequest) error {
	if err := inv.SetLines(toLineInputs(req.Items)); err != nil {
		return err
	}

	dt, dv, err := parseDiscount(req.DiscountType, req.DiscountValue)
	if err != nil {
		return err
	}
	if err := inv.SetDiscount(dt, dv); err != nil {
		return err
	}

	dueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return err
	}
	inv.SetDueDate(dueDate)

	shippingDate, err := parseOptionalDate("shipping_date", req.ShippingDate)
	if err != nil {
		return err
	}
	inv.SetShipping(req.BillingAddress, req.ShippingAddress, req.ShipVia, shippingDate, req.TrackingNumber)
	inv.SetNotes(req.Notes, req.Terms)
	return nil
}
