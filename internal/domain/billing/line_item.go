package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// LineAmounts holds the derived amounts for a single line
type LineAmounts struct {
	TaxAmount       decimal.Decimal
	TotalPrice      decimal.Decimal
	ActualUnitPrice decimal.Decimal
}

// ComputeLine computes the derived amounts for one line. Pure; inputs are
// assumed validated (see ValidateLineInput).
//
//   - tax amount is always round(quantity * unitPrice * taxRate / 100, 2)
//   - invoice lines keep tax out of the line total; the document adds the
//     summed tax once at the bottom
//   - estimate lines fold tax into the line total (per-kind policy)
//   - untaxed kinds (bill, expense, purchase order) have a zero tax amount
//
// ActualUnitPrice is the tax-exclusive effective price used for display on
// taxed documents: unitPrice * (100 - taxRate) / 100.
func ComputeLine(kind DocumentKind, quantity, unitPrice, taxRate decimal.Decimal) LineAmounts {
	subtotal := quantity.Mul(unitPrice)

	if !kind.Taxed() {
		return LineAmounts{
			TaxAmount:       decimal.Zero,
			TotalPrice:      subtotal.Round(2),
			ActualUnitPrice: unitPrice,
		}
	}

	amounts := LineAmounts{
		TaxAmount:       subtotal.Mul(taxRate).Div(oneHundred).Round(2),
		ActualUnitPrice: unitPrice.Mul(oneHundred.Sub(taxRate)).Div(oneHundred),
	}
	if kind.TaxInLineTotal() {
		amounts.TotalPrice = subtotal.Add(amounts.TaxAmount)
	} else {
		amounts.TotalPrice = subtotal.Round(2)
	}
	return amounts
}

// LineInput is the caller-supplied portion of a line item
type LineInput struct {
	ProductID   *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// ValidateLineInput checks a single line input.
// Quantity must be positive, unit price non-negative, tax rate within 0-100.
func ValidateLineInput(kind DocumentKind, in LineInput) error {
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("quantity", "must be greater than zero")
	}
	if in.UnitPrice.IsNegative() {
		return shared.NewValidationError("unit_price", "cannot be negative")
	}
	if kind.Taxed() {
		if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(oneHundred) {
			return shared.NewValidationError("tax_rate", "must be between 0 and 100")
		}
	} else if !in.TaxRate.IsZero() {
		return shared.NewValidationError("tax_rate", "not supported for this document type")
	}
	return nil
}

// LineItem is one product/quantity/price row within a financial document.
// It is exclusively owned by its parent document; lines are replaced as a
// whole when the document is edited.
type LineItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DocumentID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind            DocumentKind    `gorm:"type:varchar(20);not null"`
	ProductID       *uuid.UUID      `gorm:"type:uuid"`
	Description     string          `gorm:"type:varchar(500)"`
	Position        int             `gorm:"not null"`
	Quantity        decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxRate         decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ActualUnitPrice decimal.Decimal `gorm:"type:numeric(14,4);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "document_line_items"
}

// NewLineItem creates a validated line item with derived amounts computed
func NewLineItem(documentID uuid.UUID, kind DocumentKind, position int, in LineInput) (*LineItem, error) {
	if err := ValidateLineInput(kind, in); err != nil {
		return nil, err
	}

	amounts := ComputeLine(kind, in.Quantity, in.UnitPrice, in.TaxRate)
	now := time.Now()

	return &LineItem{
		ID:              uuid.New(),
		DocumentID:      documentID,
		Kind:            kind,
		ProductID:       in.ProductID,
		Description:     in.Description,
		Position:        position,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		TaxRate:         in.TaxRate,
		TaxAmount:       amounts.TaxAmount,
		TotalPrice:      amounts.TotalPrice,
		ActualUnitPrice: amounts.ActualUnitPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// HasProduct returns true if the line references a catalog product
func (l *LineItem) HasProduct() bool {
	return l.ProductID != nil && *l.ProductID != uuid.Nil
}

// buildLines validates and constructs the full line set for a document.
// At least one line must reference a real product; placeholder rows without
// a product reference are allowed only alongside real ones.
func buildLines(documentID uuid.UUID, kind DocumentKind, inputs []LineInput) ([]LineItem, error) {
	if len(inputs) == 0 {
		return nil, shared.NewValidationError("items", "at least one line item is required")
	}

	lines := make([]LineItem, 0, len(inputs))
	hasProduct := false
	for i, in := range inputs {
		line, err := NewLineItem(documentID, kind, i, in)
		if err != nil {
			return nil, err
		}
		if line.HasProduct() {
			hasProduct = true
		}
		lines = append(lines, *line)
	}
	if !hasProduct {
		return nil, shared.NewValidationError("items", "at least one line must reference a product")
	}
	return lines, nil
}
