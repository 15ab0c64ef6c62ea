package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSaleEntry(t *testing.T) {
	variantID := uuid.New()
	orderID := uuid.New()

	t.Run("records a negative change referencing the order", func(t *testing.T) {
		entry, err := NewSaleEntry(variantID, orderID, 3)
		require.NoError(t, err)

		assert.Equal(t, variantID, entry.VariantID)
		assert.Equal(t, -3, entry.Change)
		assert.Equal(t, ChangeSale, entry.ChangeType)
		require.NotNil(t, entry.Reference)
		assert.Equal(t, orderID, *entry.Reference)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewSaleEntry(variantID, orderID, 0)
		assert.Error(t, err)
	})
}

func TestNewAdjustmentEntry(t *testing.T) {
	variantID := uuid.New()
	adminID := uuid.New()

	t.Run("positive change defaults to restock", func(t *testing.T) {
		entry, err := NewAdjustmentEntry(variantID, 25, "", "supplier delivery", &adminID)
		require.NoError(t, err)

		assert.Equal(t, 25, entry.Change)
		assert.Equal(t, ChangeRestock, entry.ChangeType)
		assert.Equal(t, "supplier delivery", entry.Note)
		require.NotNil(t, entry.RecordedBy)
		assert.Equal(t, adminID, *entry.RecordedBy)
	})

	t.Run("negative change defaults to adjustment", func(t *testing.T) {
		entry, err := NewAdjustmentEntry(variantID, -2, "", "damaged stock", nil)
		require.NoError(t, err)
		assert.Equal(t, ChangeAdjustment, entry.ChangeType)
	})

	t.Run("explicit type is kept", func(t *testing.T) {
		entry, err := NewAdjustmentEntry(variantID, 1, ChangeReturn, "customer return", nil)
		require.NoError(t, err)
		assert.Equal(t, ChangeReturn, entry.ChangeType)
	})

	t.Run("rejects zero change", func(t *testing.T) {
		_, err := NewAdjustmentEntry(variantID, 0, "", "", nil)
		assert.Error(t, err)
	})
}

func TestParseChangeType(t *testing.T) {
	for _, valid := range []string{"restock", "sale", "return", "adjustment"} {
		ct, err := ParseChangeType(valid)
		require.NoError(t, err)
		assert.Equal(t, ChangeType(valid), ct)
	}

	_, err := ParseChangeType("shrinkage")
	assert.Error(t, err)
}
