package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EstimateStatus represents the status of an estimate
type EstimateStatus string

const (
	EstimateStatusDraft     EstimateStatus = "DRAFT"
	EstimateStatusSent      EstimateStatus = "SENT"
	EstimateStatusAccepted  EstimateStatus = "ACCEPTED"
	EstimateStatusDeclined  EstimateStatus = "DECLINED"
	EstimateStatusConverted EstimateStatus = "CONVERTED"
)

// IsValid checks if the status is a valid EstimateStatus
func (s EstimateStatus) IsValid() bool {
	switch s {
	case EstimateStatusDraft, EstimateStatusSent, EstimateStatusAccepted,
		EstimateStatusDeclined, EstimateStatusConverted:
		return true
	}
	return false
}

// String returns the string representation of EstimateStatus
func (s EstimateStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s EstimateStatus) CanTransitionTo(target EstimateStatus) bool {
	switch s {
	case EstimateStatusDraft:
		return target == EstimateStatusSent || target == EstimateStatusAccepted ||
			target == EstimateStatusDeclined || target == EstimateStatusConverted
	case EstimateStatusSent:
		return target == EstimateStatusAccepted || target == EstimateStatusDeclined ||
			target == EstimateStatusConverted
	case EstimateStatusAccepted:
		return target == EstimateStatusConverted
	case EstimateStatusDeclined, EstimateStatusConverted:
		return false // Terminal states
	}
	return false
}

// Estimate represents a pre-sale quotation aggregate root.
// An estimate can be converted into exactly one invoice.
type Estimate struct {
	shared.CompanyAggregateRoot
	Number          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_estimates_company_number,composite:company_id"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName    string          `gorm:"type:varchar(200);not null"`
	Date            time.Time       `gorm:"not null"`
	ExpiryDate      *time.Time      ``
	DiscountType    DiscountType    `gorm:"type:varchar(20);not null"`
	DiscountValue   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status          EstimateStatus  `gorm:"type:varchar(20);not null"`
	Notes           string          `gorm:"type:text"`
	Terms           string          `gorm:"type:text"`
	BillingAddress  string          `gorm:"type:varchar(500)"`
	ShippingAddress string          `gorm:"type:varchar(500)"`
	ShipVia         string          `gorm:"type:varchar(100)"`
	ShippingDate    *time.Time      ``
	TrackingNumber  string          `gorm:"type:varchar(100)"`
	InvoiceID       *uuid.UUID      `gorm:"type:uuid"` // set when converted
	Items           []LineItem      `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (Estimate) TableName() string {
	return "estimates"
}

// NewEstimate creates a new estimate in draft status
func NewEstimate(companyID uuid.UUID, number string, customerID uuid.UUID, customerName string, date time.Time) (*Estimate, error) {
	if number == "" {
		return nil, shared.NewValidationError("number", "is required")
	}
	if len(number) > 50 {
		return nil, shared.NewValidationError("number", "cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id", "is required")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("customer_name", "is required")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("date", "is required")
	}

	return &Estimate{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Number:               number,
		CustomerID:           customerID,
		CustomerName:         customerName,
		Date:                 date,
		DiscountType:         DiscountFixed,
		DiscountValue:        decimal.Zero,
		Subtotal:             decimal.Zero,
		TaxAmount:            decimal.Zero,
		DiscountAmount:       decimal.Zero,
		TotalAmount:          decimal.Zero,
		Status:               EstimateStatusDraft,
		Items:                make([]LineItem, 0),
	}, nil
}

// SetLines replaces the full line set and recomputes totals.
// Lines are always replaced as a whole, never diffed.
func (e *Estimate) SetLines(inputs []LineInput) error {
	if !e.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit estimate in %s status", e.Status))
	}

	lines, err := buildLines(e.ID, KindEstimate, inputs)
	if err != nil {
		return err
	}

	e.Items = lines
	e.recalculateTotals()
	e.UpdatedAt = time.Now()
	return nil
}

// SetDiscount updates the document-level discount and recomputes totals
func (e *Estimate) SetDiscount(discountType DiscountType, discountValue decimal.Decimal) error {
	if !e.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit estimate in %s status", e.Status))
	}
	if err := ValidateDiscount(discountType, discountValue); err != nil {
		return err
	}

	e.DiscountType = discountType
	e.DiscountValue = discountValue
	e.recalculateTotals()
	e.UpdatedAt = time.Now()
	return nil
}

// SetShipping updates the shipping details
func (e *Estimate) SetShipping(billingAddress, shippingAddress, shipVia string, shippingDate *time.Time, trackingNumber string) {
	e.BillingAddress = billingAddress
	e.ShippingAddress = shippingAddress
	e.ShipVia = shipVia
	e.ShippingDate = shippingDate
	e.TrackingNumber = trackingNumber
	e.UpdatedAt = time.Now()
}

// SetExpiryDate updates the expiry date
func (e *Estimate) SetExpiryDate(expiryDate *time.Time) {
	e.ExpiryDate = expiryDate
	e.UpdatedAt = time.Now()
}

// SetNotes updates the free-text notes and terms
func (e *Estimate) SetNotes(notes, terms string) {
	e.Notes = notes
	e.Terms = terms
	e.UpdatedAt = time.Now()
}

// MarkSent transitions the estimate to sent
func (e *Estimate) MarkSent() error {
	return e.transition(EstimateStatusSent)
}

// Accept transitions the estimate to accepted
func (e *Estimate) Accept() error {
	return e.transition(EstimateStatusAccepted)
}

// Decline transitions the estimate to declined (terminal)
func (e *Estimate) Decline() error {
	return e.transition(EstimateStatusDeclined)
}

// MarkConverted records the conversion result on the estimate.
// A second conversion attempt always fails with ALREADY_CONVERTED.
func (e *Estimate) MarkConverted(invoiceID uuid.UUID) error {
	if e.Status == EstimateStatusConverted {
		return shared.NewDomainError("ALREADY_CONVERTED", fmt.Sprintf("Estimate %s has already been converted", e.Number))
	}
	if !e.Status.CanTransitionTo(EstimateStatusConverted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot convert estimate in %s status", e.Status))
	}
	if invoiceID == uuid.Nil {
		return shared.NewValidationError("invoice_id", "is required")
	}

	e.Status = EstimateStatusConverted
	e.InvoiceID = &invoiceID
	e.UpdatedAt = time.Now()
	return nil
}

// CanModify returns true if the estimate's lines and discount can be edited
func (e *Estimate) CanModify() bool {
	return e.Status == EstimateStatusDraft || e.Status == EstimateStatusSent
}

// IsConverted returns true if the estimate has been converted to an invoice
func (e *Estimate) IsConverted() bool {
	return e.Status == EstimateStatusConverted
}

// IsExpired returns true if the estimate is past its expiry date and still open
func (e *Estimate) IsExpired(now time.Time) bool {
	if e.ExpiryDate == nil {
		return false
	}
	if e.Status == EstimateStatusDeclined || e.Status == EstimateStatusConverted {
		return false
	}
	return now.After(*e.ExpiryDate)
}

// Totals returns the current document totals
func (e *Estimate) Totals() Totals {
	return Totals{
		Subtotal:       e.Subtotal,
		TotalTax:       e.TaxAmount,
		DiscountAmount: e.DiscountAmount,
		Total:          e.TotalAmount,
	}
}

func (e *Estimate) transition(target EstimateStatus) error {
	if !e.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition estimate from %s to %s", e.Status, target))
	}
	e.Status = target
	e.UpdatedAt = time.Now()
	return nil
}

func (e *Estimate) recalculateTotals() {
	totals := ComputeTotals(e.Items, e.DiscountType, e.DiscountValue)
	e.Subtotal = totals.Subtotal
	e.TaxAmount = totals.TotalTax
	e.DiscountAmount = totals.DiscountAmount
	e.TotalAmount = totals.Total
}
