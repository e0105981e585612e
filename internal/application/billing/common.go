package billing

import (
	"time"

	"github.com/openbooks/backend/internal/domain/billing"
	"github.com/openbooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// parseDate parses a required ISO date ("2006-01-02")
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, shared.NewValidationError(field, "is required")
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewValidationError(field, "must be a valid date (YYYY-MM-DD)")
	}
	return t, nil
}

// parseOptionalDate parses an optional ISO date, returning nil when empty
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDiscount normalizes the request discount fields. An empty type means
// no discount (fixed zero).
func parseDiscount(discountType string, discountValue float64) (billing.DiscountType, decimal.Decimal, error) {
	if discountType == "" {
		return billing.DiscountFixed, decimal.Zero, nil
	}
	dt := billing.DiscountType(discountType)
	dv := decimal.NewFromFloat(discountValue)
	if err := billing.ValidateDiscount(dt, dv); err != nil {
		return "", decimal.Decimal{}, err
	}
	return dt, dv, nil
}

// toLineInputs converts request lines to domain line inputs
func toLineInputs(items []LineItemRequest) []billing.LineInput {
	inputs := make([]billing.LineInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, item.ToLineInput())
	}
	return inputs
}
