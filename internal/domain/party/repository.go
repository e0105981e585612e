package party

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence contract for customers
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Customer, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[Customer], error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

// VendorRepository defines the persistence contract for vendors
type VendorRepository interface {
	Save(ctx context.Context, vendor *Vendor) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Vendor, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[Vendor], error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
