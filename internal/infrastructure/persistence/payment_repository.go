package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// SaveAllocation persists the payment, its allocations and the mutated paid
// amounts of every touched invoice in a single transaction. A failure on
// any write rolls back the entire allocation.
func (r *GormPaymentRepository) SaveAllocation(ctx context.Context, payment *billing.Payment, invoices []*billing.Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Allocations").Create(payment).Error; err != nil {
			return err
		}
		if len(payment.Allocations) > 0 {
			if err := tx.Create(&payment.Allocations).Error; err != nil {
				return err
			}
		}
		for _, invoice := range invoices {
			if err := tx.Omit("Items").Save(invoice).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}

// FindByID finds a payment by ID within a company
func (r *GormPaymentRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("company_id = ? AND id = ?", companyID, id).
		First(&payment).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &payment, nil
}

// ListByCustomer returns a page of a customer's payments, newest first
func (r *GormPaymentRepository) ListByCustomer(ctx context.Context, companyID, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Payment], error) {
	query := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Where("company_id = ? AND customer_id = ?", companyID, customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var payments []billing.Payment
	if err := applyPagination(query, filter, paymentSortFields).Preload("Allocations").Find(&payments).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(payments, total, filter.Page, filter.PageSize)
	return result, nil
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
