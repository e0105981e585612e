package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentAllocation records how much of a payment was applied to one invoice
type PaymentAllocation struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PaymentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (PaymentAllocation) TableName() string {
	return "payment_allocations"
}

// Payment represents one customer payment event split across one or more
// invoices. Payments are immutable once recorded; the total is always the
// sum of the allocations.
type Payment struct {
	shared.CompanyAggregateRoot
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	PaymentDate     time.Time           `gorm:"not null"`
	PaymentMethodID uuid.UUID           `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	Notes           string              `gorm:"type:text"`
	Allocations     []PaymentAllocation `gorm:"foreignKey:PaymentID;references:ID"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment shell with no allocations yet
func NewPayment(companyID, customerID, paymentMethodID uuid.UUID, paymentDate time.Time, notes string) (*Payment, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id", "is required")
	}
	if paymentMethodID == uuid.Nil {
		return nil, shared.NewValidationError("payment_method_id", "is required")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewValidationError("payment_date", "is required")
	}

	return &Payment{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		CustomerID:           customerID,
		PaymentDate:          paymentDate,
		PaymentMethodID:      paymentMethodID,
		Amount:               decimal.Zero,
		Notes:                notes,
		Allocations:          make([]PaymentAllocation, 0),
	}, nil
}

// Allocate applies part of the payment to an invoice and mutates the
// invoice's paid amount and status. The payment total tracks the running
// sum of allocations.
func (p *Payment) Allocate(inv *Invoice, amount decimal.Decimal) error {
	if inv.CompanyID != p.CompanyID {
		return shared.NewValidationError("invoice_id", "belongs to a different company")
	}
	if inv.CustomerID != p.CustomerID {
		return shared.NewValidationError("invoice_id", "belongs to a different customer")
	}
	if err := inv.ApplyPayment(amount); err != nil {
		return err
	}

	p.Allocations = append(p.Allocations, PaymentAllocation{
		ID:        uuid.New(),
		PaymentID: p.ID,
		InvoiceID: inv.ID,
		Amount:    amount.Round(2),
		CreatedAt: time.Now(),
	})
	p.Amount = p.Amount.Add(amount).Round(2)
	p.UpdatedAt = time.Now()
	return nil
}

// Finalize checks the payment is complete before persistence.
// A payment with nothing allocated is rejected.
func (p *Payment) Finalize() error {
	if len(p.Allocations) == 0 {
		return shared.NewValidationError("allocations", "at least one invoice allocation is required")
	}
	sum := decimal.Zero
	for _, a := range p.Allocations {
		sum = sum.Add(a.Amount)
	}
	if !sum.Equal(p.Amount) {
		return shared.NewDomainError("INVALID_STATE", "payment amount does not match allocation sum")
	}
	return nil
}
