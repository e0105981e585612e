package party

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
)

// Customer represents a buyer the company invoices
type Customer struct {
	shared.CompanyAggregateRoot
	Name            string `gorm:"type:varchar(200);not null;index"`
	ContactName     string `gorm:"type:varchar(200)"`
	Email           string `gorm:"type:varchar(200)"`
	Phone           string `gorm:"type:varchar(50)"`
	BillingAddress  string `gorm:"type:varchar(500)"`
	ShippingAddress string `gorm:"type:varchar(500)"`
	Notes           string `gorm:"type:text"`
	Active          bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates an active customer
func NewCustomer(companyID uuid.UUID, name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("name", "cannot exceed 200 characters")
	}

	return &Customer{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		Active:               true,
	}, nil
}

// Update modifies the customer's details
func (c *Customer) Update(name, contactName, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("name", "cannot exceed 200 characters")
	}

	c.Name = name
	c.ContactName = contactName
	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	return nil
}

// SetAddresses updates the billing and shipping addresses
func (c *Customer) SetAddresses(billing, shipping string) {
	c.BillingAddress = billing
	c.ShippingAddress = shipping
	c.UpdatedAt = time.Now()
}

// SetNotes updates the free-text notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
}

// Deactivate hides the customer from new documents without deleting history
func (c *Customer) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}

// Activate re-enables the customer
func (c *Customer) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
}
