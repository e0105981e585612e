package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	poRepo     billing.PurchaseOrderRepository
	vendorRepo party.VendorRepository
	logger     *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	poRepo billing.PurchaseOrderRepository,
	vendorRepo party.VendorRepository,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		poRepo:     poRepo,
		vendorRepo: vendorRepo,
		logger:     logger,
	}
}

// Create creates a new purchase order from a submission
func (s *PurchaseOrderService) Create(ctx context.Context, companyID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, companyID, req.VendorID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	number, err := s.poRepo.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	po, err := billing.NewPurchaseOrder(companyID, number, vendor.ID, vendor.Name, date)
	if err != nil {
		return nil, err
	}

	if err := s.applyRequest(po, req); err != nil {
		return nil, err
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("company_id", companyID.String()),
		zap.String("purchase_order_id", po.ID.String()),
		zap.String("number", po.Number))

	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Update replaces a purchase order's header and full line set
func (s *PurchaseOrderService) Update(ctx context.Context, companyID, id uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if req.VendorID != po.VendorID {
		vendor, err := s.vendorRepo.FindByID(ctx, companyID, req.VendorID)
		if err != nil {
			return nil, err
		}
		po.VendorID = vendor.ID
		po.VendorName = vendor.Name
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	po.Date = date

	if err := s.applyRequest(po, req); err != nil {
		return nil, err
	}

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}

	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Get returns one purchase order
func (s *PurchaseOrderService) Get(ctx context.Context, companyID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// List returns a page of purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[PurchaseOrderResponse], error) {
	page, err := s.poRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PurchaseOrderResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToPurchaseOrderResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Delete removes a purchase order and its lines
func (s *PurchaseOrderService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	po, err := s.poRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !po.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Only draft purchase orders can be deleted")
	}
	return s.poRepo.Delete(ctx, companyID, id)
}

// MarkSent transitions the purchase order to sent
func (s *PurchaseOrderService) MarkSent(ctx context.Context, companyID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, companyID, id, (*billing.PurchaseOrder).MarkSent)
}

// MarkReceived transitions the purchase order to received
func (s *PurchaseOrderService) MarkReceived(ctx context.Context, companyID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, companyID, id, (*billing.PurchaseOrder).MarkReceived)
}

// Cancel voids the purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, companyID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, companyID, id, (*billing.PurchaseOrder).Cancel)
}

func (s *PurchaseOrderService) mutate(ctx context.Context, companyID, id uuid.UUID, fn func(*billing.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(po); err != nil {
		return nil, err
	}
	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

func (s *PurchaseOrderService) applyRequest(po *billing.PurchaseOrder, req CreatePurchaseOrderRequest) error {
	if err := po.SetLines(toLineInputs(req.Items)); err != nil {
		return err
	}

	dt, dv, err := parseDiscount(req.DiscountType, req.DiscountValue)
	if err != nil {
		return err
	}
	if err := po.SetDiscount(dt, dv); err != nil {
		return err
	}

	expectedDate, err := parseOptionalDate("expected_date", req.ExpectedDate)
	if err != nil {
		return err
	}
	po.SetShipping(req.ShippingAddress, expectedDate)
	po.SetNotes(req.Notes)
	return nil
}
