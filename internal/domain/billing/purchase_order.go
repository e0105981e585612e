package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusSent      PurchaseOrderStatus = "SENT"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSent,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSent || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusSent:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PurchaseOrder represents an order placed with a vendor.
// Shares the untaxed line machinery with bills and expenses.
type PurchaseOrder struct {
	shared.CompanyAggregateRoot
	Number           string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_orders_company_number,composite:company_id"`
	VendorID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	VendorName       string              `gorm:"type:varchar(200);not null"`
	Date             time.Time           `gorm:"not null"`
	ExpectedDate     *time.Time          ``
	ShippingAddress  string              `gorm:"type:varchar(500)"`
	DiscountType     DiscountType        `gorm:"type:varchar(20);not null"`
	DiscountValue    decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	Subtotal         decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	DiscountAmount   decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	TotalAmount      decimal.Decimal     `gorm:"type:numeric(14,2);not null"`
	Status           PurchaseOrderStatus `gorm:"type:varchar(20);not null"`
	Notes            string              `gorm:"type:text"`
	Items            []LineItem          `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(companyID uuid.UUID, number string, vendorID uuid.UUID, vendorName string, date time.Time) (*PurchaseOrder, error) {
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

	return &PurchaseOrder{
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
		Status:               PurchaseOrderStatusDraft,
		Items:                make([]LineItem, 0),
	}, nil
}

// SetLines replaces the full line set and recomputes totals
func (p *PurchaseOrder) SetLines(inputs []LineInput) error {
	if !p.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit purchase order in %s status", p.Status))
	}

	lines, err := buildLines(p.ID, KindPurchaseOrder, inputs)
	if err != nil {
		return err
	}

	p.Items = lines
	p.recalculateTotals()
	p.UpdatedAt = time.Now()
	return nil
}

// SetDiscount updates the document-level discount and recomputes totals
func (p *PurchaseOrder) SetDiscount(discountType DiscountType, discountValue decimal.Decimal) error {
	if !p.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit purchase order in %s status", p.Status))
	}
	if err := ValidateDiscount(discountType, discountValue); err != nil {
		return err
	}

	p.DiscountType = discountType
	p.DiscountValue = discountValue
	p.recalculateTotals()
	p.UpdatedAt = time.Now()
	return nil
}

// SetShipping updates the delivery details
func (p *PurchaseOrder) SetShipping(shippingAddress string, expectedDate *time.Time) {
	p.ShippingAddress = shippingAddress
	p.ExpectedDate = expectedDate
	p.UpdatedAt = time.Now()
}

// SetNotes updates the free-text notes
func (p *PurchaseOrder) SetNotes(notes string) {
	p.Notes = notes
	p.UpdatedAt = time.Now()
}

// MarkSent transitions the purchase order to sent
func (p *PurchaseOrder) MarkSent() error {
	return p.transition(PurchaseOrderStatusSent)
}

// MarkReceived transitions the purchase order to received (terminal)
func (p *PurchaseOrder) MarkReceived() error {
	return p.transition(PurchaseOrderStatusReceived)
}

// Cancel voids the purchase order
func (p *PurchaseOrder) Cancel() error {
	return p.transition(PurchaseOrderStatusCancelled)
}

// CanModify returns true if the purchase order's lines and discount can be edited
func (p *PurchaseOrder) CanModify() bool {
	return p.Status == PurchaseOrderStatusDraft
}

func (p *PurchaseOrder) transition(target PurchaseOrderStatus) error {
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition purchase order from %s to %s", p.Status, target))
	}
	p.Status = target
	p.UpdatedAt = time.Now()
	return nil
}

func (p *PurchaseOrder) recalculateTotals() {
	totals := ComputeTotals(p.Items, p.DiscountType, p.DiscountValue)
	p.Subtotal = totals.Subtotal
	p.DiscountAmount = totals.DiscountAmount
	p.TotalAmount = totals.Total
}
