package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
)

// PaymentMethodService manages the per-company payment method lookup table
type PaymentMethodService struct {
	methodRepo billing.PaymentMethodRepository
}

// NewPaymentMethodService creates a new PaymentMethodService
func NewPaymentMethodService(methodRepo billing.PaymentMethodRepository) *PaymentMethodService {
	return &PaymentMethodService{methodRepo: methodRepo}
}

// CreatePaymentMethodRequest represents a payment method submission
type CreatePaymentMethodRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// Create adds a payment method, rejecting duplicates by name
func (s *PaymentMethodService) Create(ctx context.Context, companyID uuid.UUID, req CreatePaymentMethodRequest) (*PaymentMethodResponse, error) {
	_, err := s.methodRepo.FindByName(ctx, companyID, req.Name)
	if err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Payment method with this name already exists")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	method, err := billing.NewPaymentMethod(companyID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}

	resp := ToPaymentMethodResponse(method)
	return &resp, nil
}

// List returns all of the company's payment methods
func (s *PaymentMethodService) List(ctx context.Context, companyID uuid.UUID) ([]PaymentMethodResponse, error) {
	methods, err := s.methodRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	out := make([]PaymentMethodResponse, 0, len(methods))
	for i := range methods {
		out = append(out, ToPaymentMethodResponse(&methods[i]))
	}
	return out, nil
}

// Deactivate hides a payment method from new documents
func (s *PaymentMethodService) Deactivate(ctx context.Context, companyID, id uuid.UUID) (*PaymentMethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	method.Deactivate()
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}
	resp := ToPaymentMethodResponse(method)
	return &resp, nil
}
