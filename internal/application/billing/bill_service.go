package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BillService handles vendor bill business operations
type BillService struct {
	billRepo   billing.BillRepository
	vendorRepo party.VendorRepository
	methodRepo billing.PaymentMethodRepository
	logger     *zap.Logger
}

// NewBillService creates a new BillService
func NewBillService(
	billRepo billing.BillRepository,
	vendorRepo party.VendorRepository,
	methodRepo billing.PaymentMethodRepository,
	logger *zap.Logger,
) *BillService {
	return &BillService{
		billRepo:   billRepo,
		vendorRepo: vendorRepo,
		methodRepo: methodRepo,
		logger:     logger,
	}
}

// Create creates a new bill from a submission. The payment method is
// looked up by name and created inline when missing.
func (s *BillService) Create(ctx context.Context, companyID uuid.UUID, req CreateBillRequest) (*BillResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, companyID, req.VendorID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	number, err := s.billRepo.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	bill, err := billing.NewBill(companyID, number, vendor.ID, vendor.Name, date)
	if err != nil {
		return nil, err
	}

	if err := s.applyRequest(ctx, bill, req); err != nil {
		return nil, err
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	s.logger.Info("bill created",
		zap.String("company_id", companyID.String()),
		zap.String("bill_id", bill.ID.String()),
		zap.String("number", bill.Number))

	resp := ToBillResponse(bill)
	return &resp, nil
}

// Update replaces a bill's header and full line set
func (s *BillService) Update(ctx context.Context, companyID, id uuid.UUID, req CreateBillRequest) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if req.VendorID != bill.VendorID {
		vendor, err := s.vendorRepo.FindByID(ctx, companyID, req.VendorID)
		if err != nil {
			return nil, err
		}
		bill.VendorID = vendor.ID
		bill.VendorName = vendor.Name
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	bill.Date = date

	if err := s.applyRequest(ctx, bill, req); err != nil {
		return nil, err
	}

	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	resp := ToBillResponse(bill)
	return &resp, nil
}

// Get returns one bill
func (s *BillService) Get(ctx context.Context, companyID, id uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBillResponse(bill)
	return &resp, nil
}

// List returns a page of bills
func (s *BillService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[BillResponse], error) {
	page, err := s.billRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BillResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToBillResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Delete removes a bill and its lines
func (s *BillService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.billRepo.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.billRepo.Delete(ctx, companyID, id)
}

// MarkPaid settles the bill
func (s *BillService) MarkPaid(ctx context.Context, companyID, id uuid.UUID) (*BillResponse, error) {
	return s.mutate(ctx, companyID, id, (*billing.Bill).MarkPaid)
}

// Cancel voids an open bill
func (s *BillService) Cancel(ctx context.Context, companyID, id uuid.UUID) (*BillResponse, error) {
	return s.mutate(ctx, companyID, id, (*billing.Bill).Cancel)
}

func (s *BillService) mutate(ctx context.Context, companyID, id uuid.UUID, fn func(*billing.Bill) error) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(bill); err != nil {
		return nil, err
	}
	if err := s.billRepo.Save(ctx, bill); err != nil {
		return nil, err
	}
	resp := ToBillResponse(bill)
	return &resp, nil
}

func (s *BillService) applyRequest(ctx context.Context, bill *billing.Bill, req CreateBillRequest) error {
	if err := bill.SetLines(toLineInputs(req.Items)); err != nil {
		return err
	}

	dt, dv, err := parseDiscount(req.DiscountType, req.DiscountValue)
	if err != nil {
		return err
	}
	if err := bill.SetDiscount(dt, dv); err != nil {
		return err
	}

	dueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return err
	}
	bill.SetDueDate(dueDate)

	if req.PaymentMethodName != "" {
		method, err := s.resolvePaymentMethod(ctx, bill.CompanyID, req.PaymentMethodName)
		if err != nil {
			return err
		}
		bill.SetPaymentMethod(&method.ID)
	}

	bill.SetNotes(req.Notes)
	return nil
}

func (s *BillService) resolvePaymentMethod(ctx context.Context, companyID uuid.UUID, name string) (*billing.PaymentMethod, error) {
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
