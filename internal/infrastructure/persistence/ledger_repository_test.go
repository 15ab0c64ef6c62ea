package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kiylo/backend/internal/domain/inventory"
	"github.com/kiylo/backend/internal/domain/shared"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&inventory.LedgerEntry{}))
	return db
}

func TestGormLedgerRepository_HistoryByVariant(t *testing.T) {
	db := setupLedgerTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	variantID := uuid.New()
	orderID := uuid.New()

	restock, err := inventory.NewAdjustmentEntry(variantID, 10, "", "initial delivery", nil)
	require.NoError(t, err)
	sale, err := inventory.NewSaleEntry(variantID, orderID, 3)
	require.NoError(t, err)
	otherVariant, err := inventory.NewSaleEntry(uuid.New(), orderID, 1)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, restock, sale, otherVariant))

	t.Run("returns only the variant's movements", func(t *testing.T) {
		page, err := repo.HistoryByVariant(ctx, variantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
		require.Len(t, page.Items, 2)
		for _, entry := range page.Items {
			assert.Equal(t, variantID, entry.VariantID)
		}
	})

	t.Run("narrows by change type", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["change_type"] = string(inventory.ChangeSale)

		page, err := repo.HistoryByVariant(ctx, variantID, filter)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, inventory.ChangeSale, page.Items[0].ChangeType)
		assert.Equal(t, -3, page.Items[0].Change)
	})

	t.Run("unknown change type matches nothing", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["change_type"] = "donation"

		page, err := repo.HistoryByVariant(ctx, variantID, filter)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})
}
