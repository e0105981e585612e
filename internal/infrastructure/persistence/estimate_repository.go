package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormEstimateRepository implements billing.EstimateRepository using GORM
type GormEstimateRepository struct {
	db *gorm.DB
}

// NewGormEstimateRepository creates a new GormEstimateRepository
func NewGormEstimateRepository(db *gorm.DB) *GormEstimateRepository {
	return &GormEstimateRepository{db: db}
}

// Save persists the estimate header and its full replacement line set in
// one transaction.
func (r *GormEstimateRepository) Save(ctx context.Context, estimate *billing.Estimate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(estimate).Error; err != nil {
			return err
		}
		return replaceLines(tx, estimate.ID, estimate.Items)
	})
	return translateError(err)
}

// FindByID finds an estimate by ID within a company
func (r *GormEstimateRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Estimate, error) {
	var estimate billing.Estimate
	err := r.db.WithContext(ctx).
		Preload("Items", lineOrder).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&estimate).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &estimate, nil
}

// FindByNumber finds an estimate by its document number within a company
func (r *GormEstimateRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*billing.Estimate, error) {
	var estimate billing.Estimate
	err := r.db.WithContext(ctx).
		Preload("Items", lineOrder).
		Where("company_id = ? AND number = ?", companyID, number).
		First(&estimate).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &estimate, nil
}

// List returns a page of estimates matching the filter
func (r *GormEstimateRepository) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Estimate], error) {
	query := r.db.WithContext(ctx).
		Model(&billing.Estimate{}).
		Where("company_id = ?", companyID)
	query = applyEstimateFilters(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var estimates []billing.Estimate
	if err := applyPagination(query, filter, estimateSortFields).Preload("Items", lineOrder).Find(&estimates).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(estimates, total, filter.Page, filter.PageSize)
	return result, nil
}

// Delete removes an estimate and its lines
func (r *GormEstimateRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("company_id = ? AND id = ?", companyID, id).Delete(&billing.Estimate{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("document_id = ?", id).Delete(&billing.LineItem{}).Error
	})
	return translateError(err)
}

// NextNumber returns the next estimate number for the company
func (r *GormEstimateRepository) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, "estimates", "EST", companyID, time.Now().Year())
}

// applyEstimateFilters applies search and status filters
func applyEstimateFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(number) LIKE LOWER(?) OR LOWER(customer_name) LIKE LOWER(?)", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}
	return query
}

// lineOrder keeps preloaded lines in their authored order
func lineOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

var _ billing.EstimateRepository = (*GormEstimateRepository)(nil)
