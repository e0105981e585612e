package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormPaymentMethodRepository implements billing.PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// Save creates or updates a payment method
func (r *GormPaymentMethodRepository) Save(ctx context.Context, method *billing.PaymentMethod) error {
	return translateError(r.db.WithContext(ctx).Save(method).Error)
}

// FindByID finds a payment method by ID within a company
func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*billing.PaymentMethod, error) {
	var method billing.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&method).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &method, nil
}

// FindByName finds a payment method by its exact name within a company
func (r *GormPaymentMethodRepository) FindByName(ctx context.Context, companyID uuid.UUID, name string) (*billing.PaymentMethod, error) {
	var method billing.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND name = ?", companyID, name).
		First(&method).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &method, nil
}

// List returns all payment methods for a company, alphabetically
func (r *GormPaymentMethodRepository) List(ctx context.Context, companyID uuid.UUID) ([]billing.PaymentMethod, error) {
	var methods []billing.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}

var _ billing.PaymentMethodRepository = (*GormPaymentMethodRepository)(nil)
