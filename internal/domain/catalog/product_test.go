package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates active product", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), "Widget", decimal.NewFromFloat(19.99), decimal.NewFromFloat(8.25))
		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
		assert.True(t, p.Active)
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), "", decimal.NewFromInt(1), decimal.Zero)
		assert.Error(t, err)
		_, err = NewProduct(uuid.New(), "Widget", decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err)
		_, err = NewProduct(uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(101))
		assert.Error(t, err)
	})
}

func TestProduct_Update(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, p.Update("Widget Pro", "W-100", "improved widget", decimal.NewFromInt(15), decimal.NewFromInt(5)))
	assert.Equal(t, "Widget Pro", p.Name)
	assert.Equal(t, "W-100", p.SKU)
	assert.True(t, p.UnitPrice.Equal(decimal.NewFromInt(15)))

	assert.Error(t, p.Update("", "", "", decimal.NewFromInt(1), decimal.Zero))
}
