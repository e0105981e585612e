package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Product represents a sellable catalog item. Its price and tax rate seed
// new document lines; editing a product never touches existing documents.
type Product struct {
	shared.CompanyAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;index"`
	SKU         string          `gorm:"type:varchar(100);index"`
	Description string          `gorm:"type:varchar(500)"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxRate     decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product
func NewProduct(companyID uuid.UUID, name string, unitPrice, taxRate decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("name", "cannot exceed 200 characters")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("unit_price", "cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(oneHundred) {
		return nil, shared.NewValidationError("tax_rate", "must be between 0 and 100")
	}

	return &Product{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		UnitPrice:            unitPrice,
		TaxRate:              taxRate,
		Active:               true,
	}, nil
}

// Update modifies the product's details
func (p *Product) Update(name, sku, description string, unitPrice, taxRate decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("name", "cannot exceed 200 characters")
	}
	if unitPrice.IsNegative() {
		return shared.NewValidationError("unit_price", "cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(oneHundred) {
		return shared.NewValidationError("tax_rate", "must be between 0 and 100")
	}

	p.Name = name
	p.SKU = sku
	p.Description = description
	p.UnitPrice = unitPrice
	p.TaxRate = taxRate
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the product from new documents without deleting history
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// Activate re-enables the product
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
}
