package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/domain/inventory"
	"github.com/kiylo/backend/internal/domain/order"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore holds all checkout state in memory so tests can assert the
// combined effect of a checkout across carts, variants, orders and ledger.
type memStore struct {
	carts     map[uuid.UUID]*cart.Cart
	priced    map[uuid.UUID][]cart.PricedItem
	variants  map[uuid.UUID]*catalog.Variant
	orders    map[uuid.UUID]*order.Order
	ledger    []*inventory.LedgerEntry
	coupons   map[string]*order.Coupon
	addresses map[uuid.UUID]*identity.Address
}

func newMemStore() *memStore {
	return &memStore{
		carts:     make(map[uuid.UUID]*cart.Cart),
		priced:    make(map[uuid.UUID][]cart.PricedItem),
		variants:  make(map[uuid.UUID]*catalog.Variant),
		orders:    make(map[uuid.UUID]*order.Order),
		coupons:   make(map[string]*order.Coupon),
		addresses: make(map[uuid.UUID]*identity.Address),
	}
}

func (s *memStore) clone() *memStore {
	out := newMemStore()
	for k, v := range s.carts {
		c := *v
		c.Items = append([]cart.Item(nil), v.Items...)
		out.carts[k] = &c
	}
	for k, v := range s.priced {
		out.priced[k] = append([]cart.PricedItem(nil), v...)
	}
	for k, v := range s.variants {
		vv := *v
		out.variants[k] = &vv
	}
	for k, v := range s.orders {
		o := *v
		o.Items = append([]order.Item(nil), v.Items...)
		out.orders[k] = &o
	}
	out.ledger = append([]*inventory.LedgerEntry(nil), s.ledger...)
	for k, v := range s.coupons {
		c := *v
		out.coupons[k] = &c
	}
	for k, v := range s.addresses {
		a := *v
		out.addresses[k] = &a
	}
	return out
}

func (s *memStore) restore(from *memStore) {
	s.carts = from.carts
	s.priced = from.priced
	s.variants = from.variants
	s.orders = from.orders
	s.ledger = from.ledger
	s.coupons = from.coupons
	s.addresses = from.addresses
}

type memCartRepo struct{ store *memStore }

func (r *memCartRepo) FindByOwner(_ context.Context, owner cart.Owner) (*cart.Cart, error) {
	for _, c := range r.store.carts {
		if owner.UserID != nil && c.UserID != nil && *c.UserID == *owner.UserID {
			return c, nil
		}
		if owner.GuestID != "" && c.GuestID != nil && *c.GuestID == owner.GuestID {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCartRepo) FindPricedItems(_ context.Context, cartID uuid.UUID) ([]cart.PricedItem, error) {
	return r.store.priced[cartID], nil
}

func (r *memCartRepo) Save(_ context.Context, c *cart.Cart) error {
	r.store.carts[c.ID] = c
	return nil
}

func (r *memCartRepo) DeleteItem(_ context.Context, cartID, variantID uuid.UUID) error {
	c, ok := r.store.carts[cartID]
	if !ok {
		return shared.ErrNotFound
	}
	c.RemoveItem(variantID)
	return nil
}

func (r *memCartRepo) ClearItems(_ context.Context, cartID uuid.UUID) error {
	c, ok := r.store.carts[cartID]
	if !ok {
		return shared.ErrNotFound
	}
	c.Items = nil
	delete(r.store.priced, cartID)
	return nil
}

type memVariantRepo struct{ store *memStore }

func (r *memVariantRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Variant, error) {
	v, ok := r.store.variants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func (r *memVariantRepo) FindByIDsForUpdate(_ context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	out := make([]catalog.Variant, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.store.variants[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *memVariantRepo) ReplaceForProduct(_ context.Context, productID uuid.UUID, variants []catalog.Variant) error {
	for id, v := range r.store.variants {
		if v.ProductID == productID {
			delete(r.store.variants, id)
		}
	}
	for i := range variants {
		v := variants[i]
		r.store.variants[v.ID] = &v
	}
	return nil
}

func (r *memVariantRepo) AdjustStock(_ context.Context, id uuid.UUID, change int) (bool, error) {
	v, ok := r.store.variants[id]
	if !ok {
		return false, nil
	}
	v.StockQuantity += change
	v.Touch()
	return true, nil
}

func (r *memVariantRepo) Save(_ context.Context, v *catalog.Variant) error {
	copied := *v
	r.store.variants[v.ID] = &copied
	return nil
}

func (r *memVariantRepo) FindBelowThreshold(_ context.Context, _ shared.Filter) ([]catalog.Variant, error) {
	var out []catalog.Variant
	for _, v := range r.store.variants {
		if v.IsBelowThreshold() {
			out = append(out, *v)
		}
	}
	return out, nil
}

type memOrderRepo struct{ store *memStore }

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) FindByIDForUser(_ context.Context, id, userID uuid.UUID) (*order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok || o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	var items []order.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			items = append(items, *o)
		}
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.Limit())
	return &page, nil
}

func (r *memOrderRepo) List(_ context.Context, filter shared.Filter) (*shared.Paginated[order.Order], error) {
	var items []order.Order
	for _, o := range r.store.orders {
		items = append(items, *o)
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.Limit())
	return &page, nil
}

func (r *memOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.store.orders[o.ID] = o
	return nil
}

type memLedgerRepo struct{ store *memStore }

func (r *memLedgerRepo) Append(_ context.Context, entries ...*inventory.LedgerEntry) error {
	r.store.ledger = append(r.store.ledger, entries...)
	return nil
}

func (r *memLedgerRepo) HistoryByVariant(_ context.Context, variantID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.LedgerEntry], error) {
	var items []inventory.LedgerEntry
	for _, e := range r.store.ledger {
		if e.VariantID == variantID {
			items = append(items, *e)
		}
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.Limit())
	return &page, nil
}

func (r *memLedgerRepo) List(_ context.Context, filter shared.Filter) (*shared.Paginated[inventory.LedgerEntry], error) {
	var items []inventory.LedgerEntry
	for _, e := range r.store.ledger {
		items = append(items, *e)
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.Limit())
	return &page, nil
}

type memCouponRepo struct {
	store         *memStore
	lockedLookups int
}

func (r *memCouponRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Coupon, error) {
	for _, c := range r.store.coupons {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCouponRepo) FindByCode(_ context.Context, code string) (*order.Coupon, error) {
	c, ok := r.store.coupons[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (r *memCouponRepo) FindByCodeForUpdate(ctx context.Context, code string) (*order.Coupon, error) {
	r.lockedLookups++
	return r.FindByCode(ctx, code)
}

func (r *memCouponRepo) List(_ context.Context, filter shared.Filter) (*shared.Paginated[order.Coupon], error) {
	var items []order.Coupon
	for _, c := range r.store.coupons {
		items = append(items, *c)
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.Limit())
	return &page, nil
}

func (r *memCouponRepo) Save(_ context.Context, c *order.Coupon) error {
	r.store.coupons[c.Code] = c
	return nil
}

func (r *memCouponRepo) Delete(_ context.Context, id uuid.UUID) error {
	for code, c := range r.store.coupons {
		if c.ID == id {
			delete(r.store.coupons, code)
			return nil
		}
	}
	return shared.ErrNotFound
}

type memAddressRepo struct{ store *memStore }

func (r *memAddressRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Address, error) {
	a, ok := r.store.addresses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (r *memAddressRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]identity.Address, error) {
	var out []identity.Address
	for _, a := range r.store.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAddressRepo) Save(_ context.Context, a *identity.Address) error {
	r.store.addresses[a.ID] = a
	return nil
}

func (r *memAddressRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.addresses, id)
	return nil
}

func (r *memAddressRepo) ClearDefault(_ context.Context, userID uuid.UUID) error {
	for _, a := range r.store.addresses {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

// memScope emulates transactional rollback: on error the store is restored
// to the snapshot taken when Execute began.
type memScope struct {
	store      *memStore
	repos      TransactionalRepositories
	coupons    *memCouponRepo
	executions int
}

func newMemScope(store *memStore) *memScope {
	coupons := &memCouponRepo{store: store}
	return &memScope{
		store:   store,
		coupons: coupons,
		repos: NewNoOpTransactionScope(
			&memCartRepo{store},
			&memVariantRepo{store},
			&memOrderRepo{store},
			&memLedgerRepo{store},
			coupons,
			&memAddressRepo{store},
		),
	}
}

func (s *memScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.executions++
	snapshot := s.store.clone()
	if err := fn(s.repos); err != nil {
		s.store.restore(snapshot)
		return err
	}
	return nil
}

type checkoutFixture struct {
	store     *memStore
	scope     *memScope
	service   *CheckoutService
	userID    uuid.UUID
	addressID uuid.UUID
	cartID    uuid.UUID
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	store := newMemStore()
	userID := uuid.New()

	addr, err := identity.NewAddress(userID, "Jane Doe", "+15550100", "1 Main St", "Springfield", "62704", "US")
	require.NoError(t, err)
	store.addresses[addr.ID] = addr

	userCart, err := cart.NewCart(cart.UserOwner(userID))
	require.NoError(t, err)
	store.carts[userCart.ID] = userCart

	scope := newMemScope(store)
	return &checkoutFixture{
		store:     store,
		scope:     scope,
		service:   NewCheckoutService(scope, &memCartRepo{store}),
		userID:    userID,
		addressID: addr.ID,
		cartID:    userCart.ID,
	}
}

// addLine seeds a variant with stock and puts cartQty of it in the cart
func (f *checkoutFixture) addLine(t *testing.T, sku string, stock, cartQty int, unitPrice decimal.Decimal) *catalog.Variant {
	t.Helper()
	v, err := catalog.NewVariant(uuid.New(), sku)
	require.NoError(t, err)
	v.StockQuantity = stock
	f.store.variants[v.ID] = v

	c := f.store.carts[f.cartID]
	_, err = c.AddItem(v.ID, cartQty)
	require.NoError(t, err)

	f.store.priced[f.cartID] = append(f.store.priced[f.cartID], cart.PricedItem{
		ItemID:        uuid.New(),
		VariantID:     v.ID,
		ProductID:     v.ProductID,
		SKU:           v.SKU,
		Quantity:      cartQty,
		UnitPrice:     unitPrice,
		LineTotal:     unitPrice.Mul(decimal.NewFromInt(int64(cartQty))),
		StockQuantity: stock,
	})
	return v
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("places order, decrements stock, writes ledger, clears cart", func(t *testing.T) {
		f := newCheckoutFixture(t)
		vA := f.addLine(t, "SHIRT-M", 10, 2, decimal.NewFromFloat(15.50))
		vB := f.addLine(t, "SHIRT-L", 4, 1, decimal.NewFromFloat(15.50))

		resp, err := f.service.Checkout(ctx, f.userID, CheckoutRequest{AddressID: f.addressID})
		require.NoError(t, err)

		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromFloat(46.50)))
		assert.True(t, resp.PayableAmount.Equal(decimal.NewFromFloat(46.50)))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "cod", resp.PaymentMethod)
		assert.Len(t, resp.Items, 2)

		assert.Equal(t, 8, f.store.variants[vA.ID].StockQuantity)
		assert.Equal(t, 3, f.store.variants[vB.ID].StockQuantity)

		require.Len(t, f.store.ledger, 2)
		for _, entry := range f.store.ledger {
			assert.Equal(t, inventory.ChangeSale, entry.ChangeType)
			assert.Negative(t, entry.Change)
			require.NotNil(t, entry.Reference)
			assert.Equal(t, resp.ID, *entry.Reference)
		}

		assert.True(t, f.store.carts[f.cartID].IsEmpty())
	})

	t.Run("snapshots the price at purchase time", func(t *testing.T) {
		f := newCheckoutFixture(t)
		v := f.addLine(t, "SHIRT-M", 10, 1, decimal.NewFromInt(20))

		resp, err := f.service.Checkout(ctx, f.userID, CheckoutRequest{AddressID: f.addressID})
		require.NoError(t, err)

		// a later catalog change must not touch the placed order
		f.store.variants[v.ID].Price = decimal.NewNullDecimal(decimal.NewFromInt(99))

		placed := f.store.orders[resp.ID]
		require.Len(t, placed.Items, 1)
		assert.True(t, placed.Items[0].PriceAtPurchase.Equal(decimal.NewFromInt(20)))
		assert.True(t, placed.TotalAmount.Equal(decimal.NewFromInt(20)))
	})

	t.Run("insufficient stock on one line aborts the whole checkout", func(t *testing.T) {
		f := newCheckoutFixture(t)
		vA := f.addLine(t, "SHIRT-M", 10, 2, decimal.NewFromInt(10))
		vB := f.addLine(t, "SHIRT-L", 1, 3, decimal.NewFromInt(10))

		_, err := f.service.Checkout(ctx, f.userID, CheckoutRequest{AddressID: f.addressID})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SHIRT-L")
		assert.Contains(t, err.Error(), "Insufficient stock")

		// nothing moved: no order, no ledger rows, stock intact, cart intact
		assert.Empty(t, f.store.orders)
		assert.Empty(t, f.store.ledger)
		assert.Equal(t, 10, f.store.variants[vA.ID].StockQuantity)
		assert.Equal(t, 1, f.store.variants[vB.ID].StockQuantity)
		assert.Len(t, f.store.carts[f.cartID].Items, 2)
	})

	t.Run("empty cart fails fast", func(t *testing.T) {
		f := newCheckoutFixture(t)

		_, err := f.service.Checkout(ctx, f.userID, CheckoutRequest{AddressID: f.addressID})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CART_EMPTY", domainErr.Code)
		assert.Zero(t, f.scope.executions, "no transaction should be opened for an empty cart")
	})

	t.Run("missing cart reads as empty", func(t *testing.T) {
		f := newCheckoutFixture(t)

		_, err := f.service.Checkout(ctx, uuid.New(), CheckoutRequest{AddressID: f.addressID})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CART_EMPTY", domainErr.Code)
		assert.Zero(t, f.scope.executions)
	})

	t.Run("rejects an address owned by someone else", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.addLine(t, "SHIRT-M", 10, 1, decimal.NewFromInt(10))

		other, err := identity.NewAddress(uuid.New(), "Sam Poe", "+15550101", "2 Oak Ave", "Shelbyville", "62705", "US")
		require.NoError(t, err)
		f.store.addresses[other.ID] = other

		_, err = f.service.Checkout(ctx, f.userID, CheckoutRequest{AddressID: other.ID})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
		assert.Empty(t, f.store.orders)
	})

	t.Run("draining stock to exactly zero succeeds", func(t *testing.T) {
		f := newCheckoutFixture(t)
		v := f.addLine(t, "SHIRT-M", 3, 3, decimal.NewFromInt(10))

		_, err := f.service.Checkout(ctx, f.userID, CheckoutRequest{AddressID: f.addressID})
		require.NoError(t, err)
		assert.Equal(t, 0, f.store.variants[v.ID].StockQuantity)
	})

	t.Run("applies a valid coupon and records its use", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.addLine(t, "SHIRT-M", 10, 2, decimal.NewFromInt(50))

		coupon, err := order.NewCoupon("SAVE10", order.DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		f.store.coupons[coupon.Code] = coupon

		resp, err := f.service.Checkout(ctx, f.userID, CheckoutRequest{
			AddressID:  f.addressID,
			CouponCode: "SAVE10",
		})
		require.NoError(t, err)

		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(100)))
		assert.True(t, resp.DiscountAmount.Equal(decimal.NewFromInt(10)))
		assert.True(t, resp.PayableAmount.Equal(decimal.NewFromInt(90)))
		assert.Equal(t, 1, f.store.coupons["SAVE10"].UsedCount)
		assert.Equal(t, 1, f.scope.coupons.lockedLookups, "coupon must be read under a row lock")
	})

	t.Run("exhausted coupon aborts the checkout", func(t *testing.T) {
		f := newCheckoutFixture(t)
		v := f.addLine(t, "SHIRT-M", 10, 1, decimal.NewFromInt(50))

		coupon, err := order.NewCoupon("LAST1", order.DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		limit := 1
		coupon.UsageLimit = &limit
		coupon.UsedCount = 1
		f.store.coupons[coupon.Code] = coupon

		_, err = f.service.Checkout(ctx, f.userID, CheckoutRequest{
			AddressID:  f.addressID,
			CouponCode: "LAST1",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "COUPON_INVALID", domainErr.Code)
		assert.Empty(t, f.store.orders)
		assert.Equal(t, 10, f.store.variants[v.ID].StockQuantity)
		assert.Equal(t, 1, f.store.coupons["LAST1"].UsedCount)
	})

	t.Run("unknown coupon aborts without side effects", func(t *testing.T) {
		f := newCheckoutFixture(t)
		v := f.addLine(t, "SHIRT-M", 10, 1, decimal.NewFromInt(10))

		_, err := f.service.Checkout(ctx, f.userID, CheckoutRequest{
			AddressID:  f.addressID,
			CouponCode: "NOPE",
		})
		require.Error(t, err)
		assert.Empty(t, f.store.orders)
		assert.Equal(t, 10, f.store.variants[v.ID].StockQuantity)
	})

	t.Run("ledger changes reconcile with stock movement", func(t *testing.T) {
		f := newCheckoutFixture(t)
		v := f.addLine(t, "SHIRT-M", 10, 4, decimal.NewFromInt(10))

		_, err := f.service.Checkout(ctx, f.userID, CheckoutRequest{AddressID: f.addressID})
		require.NoError(t, err)

		sum := 0
		for _, entry := range f.store.ledger {
			if entry.VariantID == v.ID {
				sum += entry.Change
			}
		}
		assert.Equal(t, 10+sum, f.store.variants[v.ID].StockQuantity)
	})

	t.Run("rejects an unknown payment method", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.addLine(t, "SHIRT-M", 10, 1, decimal.NewFromInt(10))

		_, err := f.service.Checkout(ctx, f.userID, CheckoutRequest{
			AddressID:     f.addressID,
			PaymentMethod: "barter",
		})
		require.Error(t, err)
	})
}
