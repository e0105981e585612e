package billing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
)

// PaymentMethod is a per-company lookup entry (Cash, Check, Wire, ...).
// Methods referenced by name that do not exist yet are created inline.
type PaymentMethod struct {
	shared.CompanyAggregateRoot
	Name   string `gorm:"type:varchar(100);not null;uniqueIndex:idx_payment_methods_company_name,composite:company_id"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// NewPaymentMethod creates an active payment method
func NewPaymentMethod(companyID uuid.UUID, name string) (*PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}
	if len(name) > 100 {
		return nil, shared.NewValidationError("name", "cannot exceed 100 characters")
	}

	return &PaymentMethod{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		Active:               true,
	}, nil
}

// Deactivate hides the method from new documents without deleting history
func (m *PaymentMethod) Deactivate() {
	m.Active = false
}

// Activate re-enables the method
func (m *PaymentMethod) Activate() {
	m.Active = true
}
