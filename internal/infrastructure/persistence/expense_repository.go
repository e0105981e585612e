package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormExpenseRepository implements billing.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// Save persists the expense header and its full replacement line set in
// one transaction.
func (r *GormExpenseRepository) Save(ctx context.Context, expense *billing.Expense) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(expense).Error; err != nil {
			return err
		}
		return replaceLines(tx, expense.ID, expense.Items)
	})
	return translateError(err)
}

// FindByID finds an expense by ID within a company
func (r *GormExpenseRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Expense, error) {
	var expense billing.Expense
	err := r.db.WithContext(ctx).
		Preload("Items", lineOrder).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&expense).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &expense, nil
}

// List returns a page of expenses matching the filter
func (r *GormExpenseRepository) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Expense], error) {
	query := r.db.WithContext(ctx).
		Model(&billing.Expense{}).
		Where("company_id = ?", companyID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(number) LIKE LOWER(?) OR LOWER(vendor_name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var expenses []billing.Expense
	if err := applyPagination(query, filter, expenseSortFields).Preload("Items", lineOrder).Find(&expenses).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(expenses, total, filter.Page, filter.PageSize)
	return result, nil
}

// Delete removes an expense and its lines
func (r *GormExpenseRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("company_id = ? AND id = ?", companyID, id).Delete(&billing.Expense{})
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

// NextNumber returns the next expense number for the company
func (r *GormExpenseRepository) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, "expenses", "EXP", companyID, time.Now().Year())
}

var _ billing.ExpenseRepository = (*GormExpenseRepository)(nil)
