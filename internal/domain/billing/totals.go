package billing

import (
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType represents how a document-level discount is expressed
type DiscountType string

const (
	DiscountFixed      DiscountType = "FIXED"      // absolute currency amount
	DiscountPercentage DiscountType = "PERCENTAGE" // percentage of subtotal
)

// IsValid checks if the discount type is valid
func (d DiscountType) IsValid() bool {
	return d == DiscountFixed || d == DiscountPercentage
}

// String returns the string representation of DiscountType
func (d DiscountType) String() string {
	return string(d)
}

// Totals holds the document-level rollup of a line set
type Totals struct {
	Subtotal       decimal.Decimal
	TotalTax       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals sums line items into document totals. Pure.
//
//	subtotal = round(sum(quantity * unitPrice), 2)
//	totalTax = round(sum(taxAmount), 2)
//	discount = fixed value, or subtotal * value / 100
//	total    = round(subtotal - discount + totalTax, 2)
func ComputeTotals(items []LineItem, discountType DiscountType, discountValue decimal.Decimal) Totals {
	subtotal := decimal.Zero
	totalTax := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Quantity.Mul(item.UnitPrice))
		totalTax = totalTax.Add(item.TaxAmount)
	}
	subtotal = subtotal.Round(2)
	totalTax = totalTax.Round(2)

	var discountAmount decimal.Decimal
	if discountType == DiscountFixed {
		discountAmount = discountValue.Round(2)
	} else {
		discountAmount = subtotal.Mul(discountValue).Div(oneHundred).Round(2)
	}

	return Totals{
		Subtotal:       subtotal,
		TotalTax:       totalTax,
		DiscountAmount: discountAmount,
		Total:          subtotal.Sub(discountAmount).Add(totalTax).Round(2),
	}
}

// ValidateDiscount checks a document-level discount
func ValidateDiscount(discountType DiscountType, discountValue decimal.Decimal) error {
	if !discountType.IsValid() {
		return shared.NewValidationError("discount_type", "must be FIXED or PERCENTAGE")
	}
	if discountValue.IsNegative() {
		return shared.NewValidationError("discount_value", "cannot be negative")
	}
	if discountType == DiscountPercentage && discountValue.GreaterThan(oneHundred) {
		return shared.NewValidationError("discount_value", "percentage cannot exceed 100")
	}
	return nil
}
