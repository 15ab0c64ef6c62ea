// Package integration holds integration tests that run against a real
// PostgreSQL database.
//
// This file covers the checkout transaction: ordering from a cart must
// decrement stock, snapshot prices, append ledger rows and clear the cart in
// one atomic step, and concurrent checkouts must never oversell a variant.
package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderapp "github.com/kiylo/backend/internal/application/order"
	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/domain/inventory"
	"github.com/kiylo/backend/internal/domain/order"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/kiylo/backend/internal/infrastructure/persistence"
)

// checkoutFixture wires the checkout service against a real database and
// holds the seeded catalog rows tests buy from.
type checkoutFixture struct {
	DB       *TestDB
	Checkout *orderapp.CheckoutService
	Carts    cart.Repository
	Variants catalog.VariantRepository
	Orders   order.Repository
	Ledger   inventory.Repository

	Product *catalog.Product
	Variant *catalog.Variant
}

// newCheckoutFixture runs against the shared container; dedicated reserves a
// fresh one for tests that hammer the database concurrently.
func newCheckoutFixture(t *testing.T, stock int, dedicated bool) *checkoutFixture {
	t.Helper()

	var testDB *TestDB
	if dedicated {
		testDB = NewTestDB(t)
	} else {
		testDB = NewSharedTestDB(t)
		testDB.CleanTables()
	}

	product, err := catalog.NewProduct("Trail Jacket", "trail-jacket", decimal.NewFromInt(120))
	require.NoError(t, err)
	require.NoError(t, testDB.DB.Create(product).Error)

	variant, err := catalog.NewVariant(product.ID, "TJ-GRN-M")
	require.NoError(t, err)
	variant.Color = "green"
	variant.Size = "M"
	variant.StockQuantity = stock
	require.NoError(t, testDB.DB.Create(variant).Error)

	carts := persistence.NewGormCartRepository(testDB.DB)
	return &checkoutFixture{
		DB:       testDB,
		Checkout: orderapp.NewCheckoutService(persistence.NewGormCheckoutScope(testDB.DB), carts),
		Carts:    carts,
		Variants: persistence.NewGormVariantRepository(testDB.DB),
		Orders:   persistence.NewGormOrderRepository(testDB.DB),
		Ledger:   persistence.NewGormLedgerRepository(testDB.DB),
		Product:  product,
		Variant:  variant,
	}
}

// seedShopper creates a user with a default address and a cart holding the
// fixture variant, returning the user ID and the checkout request to place.
func (f *checkoutFixture) seedShopper(t *testing.T, email string, quantity int) (uuid.UUID, orderapp.CheckoutRequest) {
	t.Helper()
	ctx := context.Background()

	user, err := identity.NewUser(email, "$2a$10$fixedhashforintegrationtests", identity.RoleUser)
	require.NoError(t, err)
	require.NoError(t, f.DB.DB.Create(user).Error)

	address, err := identity.NewAddress(user.ID, "Test Shopper", "+15550100", "1 Main St", "Springfield", "62704", "US")
	require.NoError(t, err)
	require.NoError(t, f.DB.DB.Create(address).Error)

	userCart, err := cart.NewCart(cart.UserOwner(user.ID))
	require.NoError(t, err)
	_, err = userCart.AddItem(f.Variant.ID, quantity)
	require.NoError(t, err)
	require.NoError(t, f.Carts.Save(ctx, userCart))

	return user.ID, orderapp.CheckoutRequest{
		AddressID:     address.ID,
		PaymentMethod: "cod",
	}
}

func TestCheckout_PlacesOrderAtomically(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newCheckoutFixture(t, 10, false)
	ctx := context.Background()

	userID, req := f.seedShopper(t, "shopper@example.com", 3)

	placed, err := f.Checkout.Checkout(ctx, userID, req)
	require.NoError(t, err)
	require.NotNil(t, placed)

	assert.Equal(t, userID, placed.UserID)
	assert.Equal(t, "pending", placed.Status)
	assert.Equal(t, "cod", placed.PaymentMethod)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 3, placed.Items[0].Quantity)
	// unit price = base price, the variant has no override or adjustment
	assert.True(t, placed.Items[0].PriceAtPurchase.Equal(decimal.NewFromInt(120)),
		"expected snapshot price 120, got %s", placed.Items[0].PriceAtPurchase)
	assert.True(t, placed.TotalAmount.Equal(decimal.NewFromInt(360)))
	assert.True(t, placed.PayableAmount.Equal(decimal.NewFromInt(360)))

	variant, err := f.Variants.FindByID(ctx, f.Variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, variant.StockQuantity, "stock should drop by the purchased quantity")

	history, err := f.Ledger.HistoryByVariant(ctx, f.Variant.ID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, history.Items, 1)
	assert.Equal(t, -3, history.Items[0].Change)
	assert.Equal(t, inventory.ChangeSale, history.Items[0].ChangeType)
	require.NotNil(t, history.Items[0].Reference)
	assert.Equal(t, placed.ID, *history.Items[0].Reference)

	userCart, err := f.Carts.FindByOwner(ctx, cart.UserOwner(userID))
	require.NoError(t, err)
	assert.True(t, userCart.IsEmpty(), "checkout should empty the cart")
}

func TestCheckout_InsufficientStockRollsBack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newCheckoutFixture(t, 2, false)
	ctx := context.Background()

	userID, req := f.seedShopper(t, "greedy@example.com", 5)

	_, err := f.Checkout.Checkout(ctx, userID, req)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)

	// Nothing moved: stock, ledger and cart are all untouched.
	variant, err := f.Variants.FindByID(ctx, f.Variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, variant.StockQuantity)

	history, err := f.Ledger.HistoryByVariant(ctx, f.Variant.ID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, history.Items)

	userCart, err := f.Carts.FindByOwner(ctx, cart.UserOwner(userID))
	require.NoError(t, err)
	assert.False(t, userCart.IsEmpty())
}

func TestCheckout_ConcurrentBuyersNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	const (
		stock  = 5
		buyers = 8
	)

	f := newCheckoutFixture(t, stock, true)
	ctx := context.Background()

	type shopper struct {
		userID uuid.UUID
		req    orderapp.CheckoutRequest
	}
	shoppers := make([]shopper, buyers)
	for i := range shoppers {
		userID, req := f.seedShopper(t, uuid.NewString()+"@example.com", 1)
		shoppers[i] = shopper{userID: userID, req: req}
	}

	// All buyers fire at once, each wanting one unit of a five-unit stock.
	var wg sync.WaitGroup
	results := make([]error, buyers)
	start := make(chan struct{})
	for i := range shoppers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = f.Checkout.Checkout(ctx, shoppers[i].userID, shoppers[i].req)
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr), "unexpected error: %v", err)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	}
	assert.Equal(t, stock, succeeded, "exactly the available stock should sell")

	variant, err := f.Variants.FindByID(ctx, f.Variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, variant.StockQuantity, "stock must never go negative")

	// The ledger reconciles with the stock movement: one sale row per
	// successful checkout, summing to the full decrement.
	history, err := f.Ledger.HistoryByVariant(ctx, f.Variant.ID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, history.Items, stock)
	total := 0
	for _, entry := range history.Items {
		assert.Equal(t, inventory.ChangeSale, entry.ChangeType)
		total += entry.Change
	}
	assert.Equal(t, -stock, total)

	var orderCount int64
	require.NoError(t, f.DB.DB.Model(&order.Order{}).Count(&orderCount).Error)
	assert.EqualValues(t, stock, orderCount)
}
