package order

import (
	"context"

	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/domain/inventory"
	"github.com/kiylo/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories a
// checkout touches. All repository operations inside Execute share one
// database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the checkout repositories
// within a transaction. A checkout spans four aggregates on purpose: it
// reads the cart, locks and decrements variants, inserts the order with its
// items, and appends sale rows to the inventory ledger.
type TransactionalRepositories interface {
	Carts() cart.Repository
	Variants() catalog.VariantRepository
	Orders() order.Repository
	Ledger() inventory.Repository
	Coupons() order.CouponRepository
	Addresses() identity.AddressRepository
}

// NoOpTransactionScope runs the function against plain repositories without
// a real transaction. Useful in tests.
type NoOpTransactionScope struct {
	carts     cart.Repository
	variants  catalog.VariantRepository
	orders    order.Repository
	ledger    inventory.Repository
	coupons   order.CouponRepository
	addresses identity.AddressRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	carts cart.Repository,
	variants catalog.VariantRepository,
	orders order.Repository,
	ledger inventory.Repository,
	coupons order.CouponRepository,
	addresses identity.AddressRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		carts:     carts,
		variants:  variants,
		orders:    orders,
		ledger:    ledger,
		coupons:   coupons,
		addresses: addresses,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Carts() cart.Repository                { return s.carts }
func (s *NoOpTransactionScope) Variants() catalog.VariantRepository   { return s.variants }
func (s *NoOpTransactionScope) Orders() order.Repository              { return s.orders }
func (s *NoOpTransactionScope) Ledger() inventory.Repository          { return s.ledger }
func (s *NoOpTransactionScope) Coupons() order.CouponRepository       { return s.coupons }
func (s *NoOpTransactionScope) Addresses() identity.AddressRepository { return s.addresses }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
