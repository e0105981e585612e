package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// payableStatuses are the invoice states that still carry a collectible balance
var payableStatuses = []billing.InvoiceStatus{
	billing.InvoiceStatusDraft,
	billing.InvoiceStatusSent,
	billing.InvoiceStatusPartiallyPaid,
}

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save persists the invoice header and its full replacement line set in
// one transaction.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveInvoiceTx(tx, invoice)
	})
	return translateError(err)
}

// SaveConversion persists a freshly converted invoice together with the
// source estimate's converted status in a single transaction. Either both
// documents land or neither does.
func (r *GormInvoiceRepository) SaveConversion(ctx context.Context, estimate *billing.Estimate, invoice *billing.Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveInvoiceTx(tx, invoice); err != nil {
			return err
		}
		return tx.Omit("Items").Save(estimate).Error
	})
	return translateError(err)
}

// FindByID finds an invoice by ID within a company
func (r *GormInvoiceRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", lineOrder).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&invoice).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its document number within a company
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", lineOrder).
		Where("company_id = ? AND number = ?", companyID, number).
		First(&invoice).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

// FindByIDs loads multiple invoices by their IDs
func (r *GormInvoiceRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]billing.Invoice, error) {
	if len(ids) == 0 {
		return []billing.Invoice{}, nil
	}
	var invoices []billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", lineOrder).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOutstandingByCustomer returns the customer's invoices with a positive
// balance due, oldest first.
func (r *GormInvoiceRepository) FindOutstandingByCustomer(ctx context.Context, companyID, customerID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", lineOrder).
		Where("company_id = ? AND customer_id = ? AND status IN ? AND total_amount > amount_paid",
			companyID, customerID, payableStatuses).
		Order("date ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// List returns a page of invoices matching the filter
func (r *GormInvoiceRepository) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	query := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("company_id = ?", companyID)
	query = applyInvoiceFilters(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var invoices []billing.Invoice
	if err := applyPagination(query, filter, invoiceSortFields).Preload("Items", lineOrder).Find(&invoices).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(invoices, total, filter.Page, filter.PageSize)
	return result, nil
}

// Delete removes an invoice and its lines
func (r *GormInvoiceRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("company_id = ? AND id = ?", companyID, id).Delete(&billing.Invoice{})
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

// NextNumber returns the next invoice number for the company
func (r *GormInvoiceRepository) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	return nextDocumentNumber(ctx, r.db, "invoices", "INV", companyID, time.Now().Year())
}

// saveInvoiceTx writes the invoice header and lines inside an open transaction
func saveInvoiceTx(tx *gorm.DB, invoice *billing.Invoice) error {
	if err := tx.Omit("Items").Save(invoice).Error; err != nil {
		return err
	}
	return replaceLines(tx, invoice.ID, invoice.Items)
}

// applyInvoiceFilters applies search, status and overdue filters
func applyInvoiceFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		case "overdue":
			if value == true {
				query = query.Where("due_date IS NOT NULL AND due_date < ? AND status IN ?", time.Now(), payableStatuses)
			}
		}
	}
	return query
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
