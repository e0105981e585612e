package party

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
)

// Vendor represents a supplier the company buys from
type Vendor struct {
	shared.CompanyAggregateRoot
	Name        string `gorm:"type:varchar(200);not null;index"`
	ContactName string `gorm:"type:varchar(200)"`
	Email       string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Address     string `gorm:"type:varchar(500)"`
	Notes       string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates an active vendor
func NewVendor(companyID uuid.UUID, name string) (*Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("name", "is required")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("name", "cannot exceed 200 characters")
	}

	return &Vendor{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		Active:               true,
	}, nil
}

// Update modifies the vendor's details
func (v *Vendor) Update(name, contactName, email, phone, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("name", "cannot exceed 200 characters")
	}

	v.Name = name
	v.ContactName = contactName
	v.Email = email
	v.Phone = phone
	v.Address = address
	v.UpdatedAt = time.Now()
	return nil
}

// SetNotes updates the free-text notes
func (v *Vendor) SetNotes(notes string) {
	v.Notes = notes
	v.UpdatedAt = time.Now()
}

// Deactivate hides the vendor from new documents without deleting history
func (v *Vendor) Deactivate() {
	v.Active = false
	v.UpdatedAt = time.Now()
}

// Activate re-enables the vendor
func (v *Vendor) Activate() {
	v.Active = true
	v.UpdatedAt = time.Now()
}
