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

// ExpenseService handles expense business operations
type ExpenseService struct {
	expenseRepo billing.ExpenseRepository
	vendorRepo  party.VendorRepository
	methodRepo  billing.PaymentMethodRepository
	logger      *zap.Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo billing.ExpenseRepository,
	vendorRepo party.VendorRepository,
	methodRepo billing.PaymentMethodRepository,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		vendorRepo:  vendorRepo,
		methodRepo:  methodRepo,
		logger:      logger,
	}
}

// Create records a new expense from a submission
func (s *ExpenseService) Create(ctx context.Context, companyID uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	number, err := s.expenseRepo.NextNumber(ctx, companyID)
	if err != nil {
		return nil, err
	}

	exp, err := billing.NewExpense(companyID, number, req.Category, date)
	if err != nil {
		return nil, err
	}

	if err := s.applyRequest(ctx, exp, req); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, exp); err != nil {
		return nil, err
	}

	s.logger.Info("expense recorded",
		zap.String("company_id", companyID.String()),
		zap.String("expense_id", exp.ID.String()),
		zap.String("number", exp.Number),
		zap.String("category", exp.Category))

	resp := ToExpenseResponse(exp)
	return &resp, nil
}

// Update replaces an expense's header and full line set
func (s *ExpenseService) Update(ctx context.Context, companyID, id uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	exp, err := s.expenseRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	exp.Date = date

	if req.Category != "" {
		exp.Category = req.Category
	}

	if err := s.applyRequest(ctx, exp, req); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, exp); err != nil {
		return nil, err
	}

	resp := ToExpenseResponse(exp)
	return &resp, nil
}

// Get returns one expense
func (s *ExpenseService) Get(ctx context.Context, companyID, id uuid.UUID) (*ExpenseResponse, error) {
	exp, err := s.expenseRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(exp)
	return &resp, nil
}

// List returns a page of expenses
func (s *ExpenseService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[ExpenseResponse], error) {
	page, err := s.expenseRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ExpenseResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToExpenseResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Delete removes an expense and its lines
func (s *ExpenseService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.expenseRepo.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, companyID, id)
}

// Void cancels the expense record
func (s *ExpenseService) Void(ctx context.Context, companyID, id uuid.UUID) (*ExpenseResponse, error) {
	exp, err := s.expenseRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := exp.Void(); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, exp); err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(exp)
	return &resp, nil
}

func (s *ExpenseService) applyRequest(ctx context.Context, exp *billing.Expense, req CreateExpenseRequest) error {
	if err := exp.SetLines(toLineInputs(req.Items)); err != nil {
		return err
	}

	dt, dv, err := parseDiscount(req.DiscountType, req.DiscountValue)
	if err != nil {
		return err
	}
	if err := exp.SetDiscount(dt, dv); err != nil {
		return err
	}

	if req.VendorID != nil {
		vendor, err := s.vendorRepo.FindByID(ctx, exp.CompanyID, *req.VendorID)
		if err != nil {
			return err
		}
		exp.SetVendor(&vendor.ID, vendor.Name)
	}

	if req.PaymentMethodName != "" {
		method, err := s.resolvePaymentMethod(ctx, exp.CompanyID, req.PaymentMethodName)
		if err != nil {
			return err
		}
		exp.SetPaymentMethod(&method.ID)
	}

	exp.SetNotes(req.Notes)
	return nil
}

func (s *ExpenseService) resolvePaymentMethod(ctx context.Context, companyID uuid.UUID, name string) (*billing.PaymentMethod, error) {
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
