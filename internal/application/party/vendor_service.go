package party

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
)

// VendorService handles vendor business operations
type VendorService struct {
	vendorRepo party.VendorRepository
}

// NewVendorService creates a new VendorService
func NewVendorService(vendorRepo party.VendorRepository) *VendorService {
	return &VendorService{vendorRepo: vendorRepo}
}

// Create creates a new vendor
func (s *VendorService) Create(ctx context.Context, companyID uuid.UUID, req CreateVendorRequest) (*VendorResponse, error) {
	vendor, err := party.NewVendor(companyID, req.Name)
	if err != nil {
		return nil, err
	}

	if err := vendor.Update(req.Name, req.ContactName, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}
	vendor.SetNotes(req.Notes)

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Update modifies an existing vendor
func (s *VendorService) Update(ctx context.Context, companyID, id uuid.UUID, req CreateVendorRequest) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if err := vendor.Update(req.Name, req.ContactName, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}
	vendor.SetNotes(req.Notes)

	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}

	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Get returns one vendor
func (s *VendorService) Get(ctx context.Context, companyID, id uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// List returns a page of vendors
func (s *VendorService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[VendorResponse], error) {
	page, err := s.vendorRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]VendorResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToVendorResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// Deactivate hides the vendor from new documents
func (s *VendorService) Deactivate(ctx context.Context, companyID, id uuid.UUID) (*VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	vendor.Deactivate()
	if err := s.vendorRepo.Save(ctx, vendor); err != nil {
		return nil, err
	}
	resp := ToVendorResponse(vendor)
	return &resp, nil
}

// Delete removes a vendor
func (s *VendorService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.vendorRepo.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.vendorRepo.Delete(ctx, companyID, id)
}
