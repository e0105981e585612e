package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ExpenseStatus represents the status of an expense record
type ExpenseStatus string

const (
	ExpenseStatusRecorded ExpenseStatus = "RECORDED"
	ExpenseStatusVoided   ExpenseStatus = "VOIDED"
)

// IsValid checks if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	return s == ExpenseStatusRecorded || s == ExpenseStatusVoided
}

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// Expense represents money already spent, recorded after the fact.
// Unlike bills there is nothing outstanding to settle; an expense is
// recorded or voided.
type Expense struct {
	shared.CompanyAggregateRoot
	Number          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_expenses_company_number,composite:company_id"`
	VendorID        *uuid.UUID      `gorm:"type:uuid;index"`
	VendorName      string          `gorm:"type:varchar(200)"`
	Category        string          `gorm:"type:varchar(100);not null;index"`
	Date            time.Time       `gorm:"not null"`
	PaymentMethodID *uuid.UUID      `gorm:"type:uuid"`
	DiscountType    DiscountType    `gorm:"type:varchar(20);not null"`
	DiscountValue   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status          ExpenseStatus   `gorm:"type:varchar(20);not null"`
	Notes           string          `gorm:"type:text"`
	Items           []LineItem      `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates a recorded expense
func NewExpense(companyID uuid.UUID, number, category string, date time.Time) (*Expense, error) {
	if number == "" {
		return nil, shared.NewValidationError("number", "is required")
	}
	if len(number) > 50 {
		return nil, shared.NewValidationError("number", "cannot exceed 50 characters")
	}
	if category == "" {
		return nil, shared.NewValidationError("category", "is required")
	}
	if date.IsZero() {
		return nil, shared.NewValidationError("date", "is required")
	}

	return &Expense{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Number:               number,
		Category:             category,
		Date:                 date,
		DiscountType:         DiscountFixed,
		DiscountValue:        decimal.Zero,
		Subtotal:             decimal.Zero,
		DiscountAmount:       decimal.Zero,
		TotalAmount:          decimal.Zero,
		Status:               ExpenseStatusRecorded,
		Items:                make([]LineItem, 0),
	}, nil
}

// SetLines replaces the full line set and recomputes totals
func (e *Expense) SetLines(inputs []LineInput) error {
	if e.Status != ExpenseStatusRecorded {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit expense in %s status", e.Status))
	}

	lines, err := buildLines(e.ID, KindExpense, inputs)
	if err != nil {
		return err
	}

	e.Items = lines
	e.recalculateTotals()
	e.UpdatedAt = time.Now()
	return nil
}

// SetDiscount updates the document-level discount and recomputes totals
func (e *Expense) SetDiscount(discountType DiscountType, discountValue decimal.Decimal) error {
	if e.Status != ExpenseStatusRecorded {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit expense in %s status", e.Status))
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

// SetVendor records the optional vendor the expense was paid to
func (e *Expense) SetVendor(vendorID *uuid.UUID, vendorName string) {
	e.VendorID = vendorID
	e.VendorName = vendorName
	e.UpdatedAt = time.Now()
}

// SetPaymentMethod links the expense to a payment method
func (e *Expense) SetPaymentMethod(paymentMethodID *uuid.UUID) {
	e.PaymentMethodID = paymentMethodID
	e.UpdatedAt = time.Now()
}

// SetNotes updates the free-text notes
func (e *Expense) SetNotes(notes string) {
	e.Notes = notes
	e.UpdatedAt = time.Now()
}

// Void cancels the expense record
func (e *Expense) Void() error {
	if e.Status != ExpenseStatusRecorded {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void expense in %s status", e.Status))
	}
	e.Status = ExpenseStatusVoided
	e.UpdatedAt = time.Now()
	return nil
}

func (e *Expense) recalculateTotals() {
	totals := ComputeTotals(e.Items, e.DiscountType, e.DiscountValue)
	e.Subtotal = totals.Subtotal
	e.DiscountAmount = totals.DiscountAmount
	e.TotalAmount = totals.Total
}
