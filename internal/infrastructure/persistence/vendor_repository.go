package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormVendorRepository implements party.VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *party.Vendor) error {
	return translateError(r.db.WithContext(ctx).Save(vendor).Error)
}

// FindByID finds a vendor by ID within a company
func (r *GormVendorRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*party.Vendor, error) {
	var vendor party.Vendor
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&vendor).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &vendor, nil
}

// List returns a page of vendors matching the filter
func (r *GormVendorRepository) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[party.Vendor], error) {
	query := r.db.WithContext(ctx).
		Model(&party.Vendor{}).
		Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var vendors []party.Vendor
	if err := applyPagination(query, filter, vendorSortFields).Find(&vendors).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(vendors, total, filter.Page, filter.PageSize)
	return result, nil
}

// Delete removes a vendor
func (r *GormVendorRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&party.Vendor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ party.VendorRepository = (*GormVendorRepository)(nil)
