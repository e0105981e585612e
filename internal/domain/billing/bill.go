package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BillStatus represents the status of a vendor bill
type BillStatus string

const (
	BillStatusOpen      BillStatus = "OPEN"
	BillStatusPaid      BillStatus = "PAID"
	BillStatusCancelled BillStatus = "CANCELLED"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusOpen, BillStatusPaid, BillStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// Bill represents a payable received from a vendor. Bill lines record
// gross amounts with no per-line tax.
type Bill struct {
	shared.CompanyAggregateRoot
	Number          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_bills_company_number,composite:company_id"`
	VendorID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorName      string          `gorm:"type:varchar(200);not null"`
	Date            time.Time       `gorm:"not null"`
	DueDate         *time.Time      ``
	PaymentMethodID *uuid.UUID      `gorm:"type:uuid"`
	DiscountType    DiscountType    `gorm:"type:varchar(20);not null"`
	DiscountValue   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status          BillStatus      `gorm:"type:varchar(20);not null"`
	Notes           string          `gorm:"type:text"`
	Items           []LineItem      `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (Bill) TableName() string {
	return "bills"
}

// NewBill creates a new open bill
func NewBill(companyID uuid.UUID, number string, vendorID uuid.UUID, vendorName string, date time.Time) (*Bill, error) {
	if number == "" {
		return nil, shared.NewValidationError("number", "is required")
	}
	if len(number) > 50 {
		return nil, shared.NewValidationError("number", "cannot exceed 50 characters")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewValidationError("vendor_id", "is required")
	}
	if vendorName == "" {
		return nil, shared.NewValidationError("vendor_name", "is required")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("date", "is required")
	}

	return &Bill{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Number:               number,
		VendorID:             vendorID,
		VendorName:           vendorName,
		Date:                 date,
		DiscountType:         DiscountFixed,
		DiscountValue:        decimal.Zero,
		Subtotal:             decimal.Zero,
		DiscountAmount:       decimal.Zero,
		TotalAmount:          decimal.Zero,
		Status:               BillStatusOpen,
		Items:                make([]LineItem, 0),
	}, nil
}

// SetLines replaces the full line set and recomputes totals
func (b *Bill) SetLines(inputs []LineInput) error {
	if !b.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit bill in %s status", b.Status))
	}

	lines, err := buildLines(b.ID, KindBill, inputs)
	if err != nil {
		return err
	}

	b.Items = lines
	b.recalculateTotals()
	b.UpdatedAt = time.Now()
	return nil
}

// SetDiscount updates the document-level discount and recomputes totals
func (b *Bill) SetDiscount(discountType DiscountType, discountValue decimal.Decimal) error {
	if !b.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit bill in %s status", b.Status))
	}
	if err := ValidateDiscount(discountType, discountValue); err != nil {
		return err
	}

	b.DiscountType = discountType
	b.DiscountValue = discountValue
	b.recalculateTotals()
	b.UpdatedAt = time.Now()
	return nil
}

// SetPaymentMethod links the bill to a payment method
func (b *Bill) SetPaymentMethod(paymentMethodID *uuid.UUID) {
	b.PaymentMethodID = paymentMethodID
	b.UpdatedAt = time.Now()
}

// SetDueDate updates the due date
func (b *Bill) SetDueDate(dueDate *time.Time) {
	b.DueDate = dueDate
	b.UpdatedAt = time.Now()
}

// SetNotes updates the free-text notes
func (b *Bill) SetNotes(notes string) {
	b.Notes = notes
	b.UpdatedAt = time.Now()
}

// MarkPaid settles the bill
func (b *Bill) MarkPaid() error {
	if b.Status != BillStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay bill in %s status", b.Status))
	}
	b.Status = BillStatusPaid
	b.UpdatedAt = time.Now()
	return nil
}

// Cancel voids an open bill
func (b *Bill) Cancel() error {
	if b.Status != BillStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel bill in %s status", b.Status))
	}
	b.Status = BillStatusCancelled
	b.UpdatedAt = time.Now()
	return nil
}

// CanModify returns true if the bill's lines and discount can be edited
func (b *Bill) CanModify() bool {
	return b.Status == BillStatusOpen
}

// Totals returns the current document totals. Bill lines carry no tax.
func (b *Bill) Totals() Totals {
	return Totals{
		Subtotal:       b.Subtotal,
		TotalTax:       decimal.Zero,
		DiscountAmount: b.DiscountAmount,
		Total:          b.TotalAmount,
	}
}

func (b *Bill) recalculateTotals() {
	totals := ComputeTotals(b.Items, b.DiscountType, b.DiscountValue)
	b.Subtotal = totals.Subtotal
	b.DiscountAmount = totals.DiscountAmount
	b.TotalAmount = totals.Total
}
