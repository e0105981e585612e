package party

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates active customer with trimmed name", func(t *testing.T) {
		c, err := NewCustomer(uuid.New(), "  Acme Corp  ")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", c.Name)
		assert.True(t, c.Active)
		assert.NotEqual(t, uuid.Nil, c.ID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCustomer(uuid.New(), "   ")
		assert.Error(t, err)
	})
}

func TestCustomer_Update(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Acme Corp")
	require.NoError(t, err)

	require.NoError(t, c.Update("Acme Inc", "Jane Doe", "jane@acme.test", "555-0100"))
	assert.Equal(t, "Acme Inc", c.Name)
	assert.Equal(t, "Jane Doe", c.ContactName)

	assert.Error(t, c.Update("", "", "", ""))
	assert.Equal(t, "Acme Inc", c.Name, "failed update must not mutate")
}

func TestCustomer_ActivationToggle(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Acme Corp")
	require.NoError(t, err)

	c.Deactivate()
	assert.False(t, c.Active)
	c.Activate()
	assert.True(t, c.Active)
}

func TestNewVendor(t *testing.T) {
	v, err := NewVendor(uuid.New(), "Supplies Ltd")
	require.NoError(t, err)
	assert.Equal(t, "Supplies Ltd", v.Name)
	assert.True(t, v.Active)

	_, err = NewVendor(uuid.New(), "")
	assert.Error(t, err)
}
