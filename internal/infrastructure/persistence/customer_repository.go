package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/party"
	"github.com/openbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCustomerRepository implements party.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *party.Customer) error {
	return translateError(r.db.WithContext(ctx).Save(customer).Error)
}

// FindByID finds a customer by ID within a company
func (r *GormCustomerRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*party.Customer, error) {
	var customer party.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&customer).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &customer, nil
}

// List returns a page of customers matching the filter
func (r *GormCustomerRepository) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[party.Customer], error) {
	query := r.db.WithContext(ctx).
		Model(&party.Customer{}).
		Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(phone) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var customers []party.Customer
	if err := applyPagination(query, filter, customerSortFields).Find(&customers).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(customers, total, filter.Page, filter.PageSize)
	return result, nil
}

// Delete removes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		Delete(&party.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ party.CustomerRepository = (*GormCustomerRepository)(nil)
