package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLines(t *testing.T, kind DocumentKind, inputs []LineInput) []LineItem {
	t.Helper()
	lines, err := buildLines(uuid.New(), kind, inputs)
	require.NoError(t, err)
	return lines
}

func TestComputeTotals(t *testing.T) {
	productID := uuid.New()

	t.Run("invoice with fixed discount", func(t *testing.T) {
		// 2 x 100 @ 10% tax, 20 fixed discount:
		// subtotal 200, tax 20, total 200 - 20 + 20 = 200
		lines := mustLines(t, KindInvoice, []LineInput{
			{ProductID: &productID, Quantity: d("2"), UnitPrice: d("100"), TaxRate: d("10")},
		})
		got := ComputeTotals(lines, DiscountFixed, d("20"))
		assert.True(t, got.Subtotal.Equal(d("200")))
		assert.True(t, got.TotalTax.Equal(d("20")))
		assert.True(t, got.DiscountAmount.Equal(d("20")))
		assert.True(t, got.Total.Equal(d("200")))
	})

	t.Run("same lines as estimate carry a larger line total but identical document totals", func(t *testing.T) {
		lines := mustLines(t, KindEstimate, []LineInput{
			{ProductID: &productID, Quantity: d("2"), UnitPrice: d("100"), TaxRate: d("10")},
		})
		assert.True(t, lines[0].TotalPrice.Equal(d("220")))

		got := ComputeTotals(lines, DiscountFixed, d("20"))
		assert.True(t, got.Subtotal.Equal(d("200")))
		assert.True(t, got.TotalTax.Equal(d("20")))
		assert.True(t, got.Total.Equal(d("200")))
	})

	t.Run("percentage discount", func(t *testing.T) {
		lines := mustLines(t, KindInvoice, []LineInput{
			{ProductID: &productID, Quantity: d("3"), UnitPrice: d("50"), TaxRate: d("8")},
		})
		got := ComputeTotals(lines, DiscountPercentage, d("10"))
		assert.True(t, got.Subtotal.Equal(d("150")))
		assert.True(t, got.TotalTax.Equal(d("12")))
		assert.True(t, got.DiscountAmount.Equal(d("15")))
		assert.True(t, got.Total.Equal(d("147")))
	})

	t.Run("multi-line rounding", func(t *testing.T) {
		lines := mustLines(t, KindInvoice, []LineInput{
			{ProductID: &productID, Quantity: d("1"), UnitPrice: d("33.33"), TaxRate: d("7.5")},
			{ProductID: &productID, Quantity: d("2"), UnitPrice: d("10.005"), TaxRate: d("7.5")},
		})
		got := ComputeTotals(lines, DiscountFixed, decimal.Zero)
		// 33.33 + 20.01 = 53.34; tax 2.50 + 1.50 = 4.00
		assert.Equal(t, "53.34", got.Subtotal.StringFixed(2))
		assert.Equal(t, "4.00", got.TotalTax.StringFixed(2))
		assert.Equal(t, "57.34", got.Total.StringFixed(2))
	})

	t.Run("untaxed bill totals", func(t *testing.T) {
		lines := mustLines(t, KindBill, []LineInput{
			{ProductID: &productID, Quantity: d("4"), UnitPrice: d("25.50")},
			{ProductID: &productID, Quantity: d("1"), UnitPrice: d("9.99")},
		})
		got := ComputeTotals(lines, DiscountFixed, decimal.Zero)
		assert.True(t, got.Subtotal.Equal(d("111.99")))
		assert.True(t, got.TotalTax.IsZero())
		assert.True(t, got.Total.Equal(d("111.99")))
	})

	t.Run("total identity holds", func(t *testing.T) {
		lines := mustLines(t, KindInvoice, []LineInput{
			{ProductID: &productID, Quantity: d("7"), UnitPrice: d("13.45"), TaxRate: d("6.25")},
			{ProductID: &productID, Quantity: d("2"), UnitPrice: d("99.99"), TaxRate: d("6.25")},
		})
		got := ComputeTotals(lines, DiscountPercentage, d("12.5"))
		want := got.Subtotal.Sub(got.DiscountAmount).Add(got.TotalTax).Round(2)
		assert.True(t, got.Total.Equal(want))
	})
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, ValidateDiscount(DiscountFixed, d("20")))
	assert.NoError(t, ValidateDiscount(DiscountPercentage, d("100")))
	assert.Error(t, ValidateDiscount(DiscountType("COUPON"), d("1")))
	assert.Error(t, ValidateDiscount(DiscountFixed, d("-1")))
	assert.Error(t, ValidateDiscount(DiscountPercentage, d("100.01")))
}
