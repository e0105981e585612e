package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent || target == InvoiceStatusPartiallyPaid ||
			target == InvoiceStatusPaid || target == InvoiceStatusCancelled
	case InvoiceStatusSent:
		return target == InvoiceStatusPartiallyPaid || target == InvoiceStatusPaid ||
			target == InvoiceStatusCancelled
	case InvoiceStatusPartiallyPaid:
		return target == InvoiceStatusPaid
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsPayable returns true if payments can be applied in this status
func (s InvoiceStatus) IsPayable() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusSent || s == InvoiceStatusPartiallyPaid
}

// Invoice represents a receivable document aggregate root.
// Payment state (amount paid, partially paid / paid) is tracked on the
// invoice itself; OVERDUE is derived from the due date, never stored.
type Invoice struct {
	shared.CompanyAggregateRoot
	Number          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_company_number,composite:company_id"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName    string          `gorm:"type:varchar(200);not null"`
	Date            time.Time       `gorm:"not null"`
	DueDate         *time.Time      ``
	DiscountType    DiscountType    `gorm:"type:varchar(20);not null"`
	DiscountValue   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	AmountPaid      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status          InvoiceStatus   `gorm:"type:varchar(20);not null"`
	Notes           string          `gorm:"type:text"`
	Terms           string          `gorm:"type:text"`
	BillingAddress  string          `gorm:"type:varchar(500)"`
	ShippingAddress string          `gorm:"type:varchar(500)"`
	ShipVia         string          `gorm:"type:varchar(100)"`
	ShippingDate    *time.Time      ``
	TrackingNumber  string          `gorm:"type:varchar(100)"`
	EstimateID      *uuid.UUID      `gorm:"type:uuid"` // set when created by conversion
	Items           []LineItem      `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice in draft status
func NewInvoice(companyID uuid.UUID, number string, customerID uuid.UUID, customerName string, date time.Time) (*Invoice, error) {
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

	return &Invoice{
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
		AmountPaid:           decimal.Zero,
		Status:               InvoiceStatusDraft,
		Items:                make([]LineItem, 0),
	}, nil
}

// NewInvoiceFromEstimate builds an invoice from an accepted estimate.
// Header fields carry over, the estimate's expiry date becomes the due
// date, and every line is recomputed under invoice tax rules. Only the
// per-line total convention changes; the document totals come out equal
// because both kinds derive subtotal from quantity and unit price.
func NewInvoiceFromEstimate(est *Estimate, number string, date time.Time) (*Invoice, error) {
	if est.IsConverted() {
		return nil, shared.NewDomainError("ALREADY_CONVERTED", fmt.Sprintf("Estimate %s has already been converted", est.Number))
	}

	inv, err := NewInvoice(est.CompanyID, number, est.CustomerID, est.CustomerName, date)
	if err != nil {
		return nil, err
	}

	inv.DueDate = est.ExpiryDate
	inv.Notes = est.Notes
	inv.Terms = est.Terms
	inv.BillingAddress = est.BillingAddress
	inv.ShippingAddress = est.ShippingAddress
	inv.ShipVia = est.ShipVia
	inv.ShippingDate = est.ShippingDate
	inv.TrackingNumber = est.TrackingNumber
	inv.EstimateID = &est.ID

	inputs := make([]LineInput, 0, len(est.Items))
	for _, item := range est.Items {
		inputs = append(inputs, LineInput{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
		})
	}
	if err := inv.SetLines(inputs); err != nil {
		return nil, err
	}
	if err := inv.SetDiscount(est.DiscountType, est.DiscountValue); err != nil {
		return nil, err
	}
	return inv, nil
}

// SetLines replaces the full line set and recomputes totals
func (i *Invoice) SetLines(inputs []LineInput) error {
	if !i.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit invoice in %s status", i.Status))
	}

	lines, err := buildLines(i.ID, KindInvoice, inputs)
	if err != nil {
		return err
	}

	i.Items = lines
	i.recalculateTotals()
	i.UpdatedAt = time.Now()
	return nil
}

// SetDiscount updates the document-level discount and recomputes totals
func (i *Invoice) SetDiscount(discountType DiscountType, discountValue decimal.Decimal) error {
	if !i.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit invoice in %s status", i.Status))
	}
	if err := ValidateDiscount(discountType, discountValue); err != nil {
		return err
	}

	i.DiscountType = discountType
	i.DiscountValue = discountValue
	i.recalculateTotals()
	i.UpdatedAt = time.Now()
	return nil
}

// SetShipping updates the shipping details
func (i *Invoice) SetShipping(billingAddress, shippingAddress, shipVia string, shippingDate *time.Time, trackingNumber string) {
	i.BillingAddress = billingAddress
	i.ShippingAddress = shippingAddress
	i.ShipVia = shipVia
	i.ShippingDate = shippingDate
	i.TrackingNumber = trackingNumber
	i.UpdatedAt = time.Now()
}

// SetDueDate updates the due date
func (i *Invoice) SetDueDate(dueDate *time.Time) {
	i.DueDate = dueDate
	i.UpdatedAt = time.Now()
}

// SetNotes updates the free-text notes and terms
func (i *Invoice) SetNotes(notes, terms string) {
	i.Notes = notes
	i.Terms = terms
	i.UpdatedAt = time.Now()
}

// MarkSent transitions the invoice to sent
func (i *Invoice) MarkSent() error {
	if !i.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send invoice in %s status", i.Status))
	}
	i.Status = InvoiceStatusSent
	i.UpdatedAt = time.Now()
	return nil
}

// Cancel voids an unpaid invoice
func (i *Invoice) Cancel() error {
	if !i.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", i.Status))
	}
	i.Status = InvoiceStatusCancelled
	i.UpdatedAt = time.Now()
	return nil
}

// ApplyPayment records an allocation against the invoice balance.
// Overpayment is rejected outright; callers split payments across
// invoices before applying them.
func (i *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if !i.Status.IsPayable() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to invoice in %s status", i.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("amount", "must be greater than zero")
	}
	if amount.GreaterThan(i.BalanceDue()) {
		return shared.NewValidationError("amount", fmt.Sprintf("exceeds invoice balance of %s", i.BalanceDue().StringFixed(2)))
	}

	i.AmountPaid = i.AmountPaid.Add(amount).Round(2)
	if i.BalanceDue().IsZero() {
		i.Status = InvoiceStatusPaid
	} else {
		i.Status = InvoiceStatusPartiallyPaid
	}
	i.UpdatedAt = time.Now()
	return nil
}

// BalanceDue returns the outstanding amount on the invoice
func (i *Invoice) BalanceDue() decimal.Decimal {
	return i.TotalAmount.Sub(i.AmountPaid)
}

// IsOverdue reports whether the invoice is past due. Derived on read;
// the stored status never becomes OVERDUE.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.DueDate == nil {
		return false
	}
	if i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusCancelled {
		return false
	}
	return now.After(*i.DueDate)
}

// CanModify returns true if the invoice's lines and discount can be edited.
// Once any payment has been applied the amounts are frozen.
func (i *Invoice) CanModify() bool {
	return (i.Status == InvoiceStatusDraft || i.Status == InvoiceStatusSent) && i.AmountPaid.IsZero()
}

// Totals returns the current document totals
func (i *Invoice) Totals() Totals {
	return Totals{
		Subtotal:       i.Subtotal,
		TotalTax:       i.TaxAmount,
		DiscountAmount: i.DiscountAmount,
		Total:          i.TotalAmount,
	}
}

func (i *Invoice) recalculateTotals() {
	totals := ComputeTotals(i.Items, i.DiscountType, i.DiscountValue)
	i.Subtotal = totals.Subtotal
	i.TaxAmount = totals.TotalTax
	i.DiscountAmount = totals.DiscountAmount
	i.TotalAmount = totals.Total
}
