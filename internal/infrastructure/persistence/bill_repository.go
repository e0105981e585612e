package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBillRepository implements billing.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Save persists the bill header and its full replacement line set in one
// transaction.
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(bill).Error; err != nil {
			return err
		}
		return replaceLines(tx, bill.ID, bill.Items)
	})
	return translateError(err)
}

// FindByID finds a bill by ID within a company
func (r *GormBillRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Bill, error) {
	var bill billing.Bill
	err := r.db.WithContext(ctx).
		Preload("Items", lineOrder).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&bill).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &bill, nil
}

// List returns a page of bills matching the filter
func (r *GormBillRepository) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Bill], error) {
	query := r.db.WithContext(ctx).
		Model(&billing.Bill{}).
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

	var bills []billing.Bill
	if err := applyPagination(query, filter, billSortFields).Preload("Items", lineOrder).Find(&bills).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(bills, total, filter.Page, filter.PageSize)
	return result, nil
}

// Delete removes a bill and its lines
func (r *GormBillRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("company_id = ? AND id = ?", companyID, id).Delete(&billing.Bill{})
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

// NextNumber returns the next bill number for the company
func (r *GormBillRepository) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, "bills", "BILL", companyID, time.Now().Year())
}

var _ billing.BillRepository = (*GormBillRepository)(nil)
