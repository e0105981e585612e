package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements billing.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Save persists the purchase order header and its full replacement line
// set in one transaction.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *billing.PurchaseOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(po).Error; err != nil {
			return err
		}
		return replaceLines(tx, po.ID, po.Items)
	})
	return translateError(err)
}

// FindByID finds a purchase order by ID within a company
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.PurchaseOrder, error) {
	var po billing.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Items", lineOrder).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&po).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &po, nil
}

// List returns a page of purchase orders matching the filter
func (r *GormPurchaseOrderRepository) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.PurchaseOrder], error) {
	query := r.db.WithContext(ctx).
		Model(&billing.PurchaseOrder{}).
		Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(number) LIKE LOWER(?) OR LOWER(vendor_name) LIKE LOWER(?)", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []billing.PurchaseOrder
	if err := applyPagination(query, filter, purchaseOrderSortFields).Preload("Items", lineOrder).Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return result, nil
}

// Delete removes a purchase order and its lines
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("company_id = ? AND id = ?", companyID, id).Delete(&billing.PurchaseOrder{})
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

// NextNumber returns the next purchase order number for the company
func (r *GormPurchaseOrderRepository) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, "purchase_orders", "PO", companyID, time.Now().Year())
}

var _ billing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
