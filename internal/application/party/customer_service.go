package party

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
)

// CustomerService handles customer business operations
type CustomerService struct {
	customerRepo party.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo party.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, companyID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := party.NewCustomer(companyID, req.Name)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(req.Name, req.ContactName, req.Email, req.Phone); err != nil {
		return nil, err
	}
	customer.SetAddresses(req.BillingAddress, req.ShippingAddress)
	customer.SetNotes(req.Notes)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Update modifies an existing customer
func (s *CustomerService) Update(ctx context.Context, companyID, id uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(req.Name, req.ContactName, req.Email, req.Phone); err != nil {
		return nil, err
	}
	customer.SetAddresses(req.BillingAddress, req.ShippingAddress)
	customer.SetNotes(req.Notes)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Get returns one customer
func (s *CustomerService) Get(ctx context.Context, companyID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	page, err := s.customerRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToCustomerResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Deactivate hides the customer from new documents
func (s *CustomerService) Deactivate(ctx context.Context, companyID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	customer.Deactivate()
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, companyID, id)
}
