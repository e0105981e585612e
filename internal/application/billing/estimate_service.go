package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EstimateService handles estimate business operations, including the
// conversion of an estimate into an invoice.
type EstimateService struct {
	estimateRepo billing.EstimateRepository
	invoiceRepo  billing.InvoiceRepository
	customerRepo party.CustomerRepository
	logger       *zap.Logger
}

// NewEstimateService creates a new EstimateService
func NewEstimateService(
	estimateRepo billing.EstimateRepository,
	invoiceRepo billing.InvoiceRepository,
	customerRepo party.CustomerRepository,
	logger *zap.Logger,
) *EstimateService {
	return &EstimateService{
		estimateRepo: estimateRepo,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new estimate from a submission
func (s *EstimateService) Create(ctx context.Context, companyID uuid.UUID, req CreateEstimateRequest) (*EstimateResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	number, err := s.estimateRepo.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	est, err := billing.NewEstimate(companyID, number, customer.ID, customer.Name, date)
	if err != nil {
		return nil, err
	}

	if err := s.applyRequest(est, req); err != nil {
		return nil, err
	}

	if err := s.estimateRepo.Save(ctx, est); err != nil {
		return nil, err
	}

	s.logger.Info("estimate created",
		zap.String("company_id", companyID.String()),
		zap.String("estimate_id", est.ID.String()),
		zap.String("number", est.Number))

	resp := ToEstimateResponse(est)
	return &resp, nil
}

// Update replaces an estimate's header and full line set
func (s *EstimateService) Update(ctx context.Context, companyID, id uuid.UUID, req CreateEstimateRequest) (*EstimateResponse, error) {
	est, err := s.estimateRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != est.CustomerID {
		customer, err := s.customerRepo.FindByID(ctx, companyID, req.CustomerID)
		if err != nil {
			return nil, err
		}
		est.CustomerID = customer.ID
		est.CustomerName = customer.Name
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	est.Date = date

	if err := s.applyRequest(est, req); err != nil {
		return nil, err
	}

	if err := s.estimateRepo.Save(ctx, est); err != nil {
		return nil, err
	}

	resp := ToEstimateResponse(est)
	return &resp, nil
}

// Get returns one estimate
func (s *EstimateService) Get(ctx context.Context, companyID, id uuid.UUID) (*EstimateResponse, error) {
	est, err := s.estimateRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEstimateResponse(est)
	return &resp, nil
}

// List returns a page of estimates
func (s *EstimateService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[EstimateResponse], error) {
	page, err := s.estimateRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]EstimateResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToEstimateResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Delete removes an estimate and its lines
func (s *EstimateService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	est, err := s.estimateRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if est.IsConverted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a converted estimate")
	}
	return s.estimateRepo.Delete(ctx, companyID, id)
}

// MarkSent transitions the estimate to sent
func (s *EstimateService) MarkSent(ctx context.Context, companyID, id uuid.UUID) (*EstimateResponse, error) {
	return s.transition(ctx, companyID, id, (*billing.Estimate).MarkSent)
}

// Accept transitions the estimate to accepted
func (s *EstimateService) Accept(ctx context.Context, companyID, id uuid.UUID) (*EstimateResponse, error) {
	return s.transition(ctx, companyID, id, (*billing.Estimate).Accept)
}

// Decline transitions the estimate to declined
func (s *EstimateService) Decline(ctx context.Context, companyID, id uuid.UUID) (*EstimateResponse, error) {
	return s.transition(ctx, companyID, id, (*billing.Estimate).Decline)
}

// Convert turns the estimate into a new invoice. The header carries over,
// the expiry date becomes the invoice due date, lines are recomputed under
// invoice tax rules, and the estimate is marked converted with a reference
// to the invoice. All writes happen in a single transaction; converting an
// already-converted estimate fails with ALREADY_CONVERTED and writes
// nothing.
func (s *EstimateService) Convert(ctx context.Context, companyID, id uuid.UUID) (*InvoiceResponse, error) {
	est, err := s.estimateRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	inv, err := billing.NewInvoiceFromEstimate(est, number, time.Now())
	if err != nil {
		return nil, err
	}

	if err := est.MarkConverted(inv.ID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveConversion(ctx, est, inv); err != nil {
		return nil, err
	}

	s.logger.Info("estimate converted",
		zap.String("company_id", companyID.String()),
		zap.String("estimate_id", est.ID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.Number))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *EstimateService) transition(ctx context.Context, companyID, id uuid.UUID, fn func(*billing.Estimate) error) (*EstimateResponse, error) {
	est, err := s.estimateRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(est); err != nil {
		return nil, err
	}
	if err := s.estimateRepo.Save(ctx, est); err != nil {
		return nil, err
	}
	resp := ToEstimateResponse(est)
	return &resp, nil
}

func (s *EstimateService) applyRequest(est *billing.Estimate, req CreateEstimateRequest) error {
	if err := est.SetLines(toLineInputs(req.Items)); err != nil {
		return err
	}

	dt, dv, err := parseDiscount(req.DiscountType, req.DiscountValue)
	if err != nil {
		return err
	}
	if err := est.SetDiscount(dt, dv); err != nil {
		return err
	}

	expiryDate, err := parseOptionalDate("expiry_date", req.ExpiryDate)
	if err != nil {
		return err
	}
	est.SetExpiryDate(expiryDate)

	shippingDate, err := parseOptionalDate("shipping_date", req.ShippingDate)
	if err != nil {
		return err
	}
	est.SetShipping(req.BillingAddress, req.ShippingAddress, req.ShipVia, shippingDate, req.TrackingNumber)
	est.SetNotes(req.Notes, req.Terms)
	return nil
}
