package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
)

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, companyID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[Product], error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}
