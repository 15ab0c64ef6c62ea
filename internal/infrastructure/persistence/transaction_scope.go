package persistence

import (
	"context"

	"gorm.io/gorm"

	appcatalog "github.com/kiylo/backend/internal/application/catalog"
	appinventory "github.com/kiylo/backend/internal/application/inventory"
	apporder "github.com/kiylo/backend/internal/application/order"
	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/domain/inventory"
	"github.com/kiylo/backend/internal/domain/order"
)

// GormCheckoutScope implements the checkout transaction scope using GORM
// transactions. Every repository handed to the callback shares one
// database transaction.
type GormCheckoutScope struct {
	db *gorm.DB
}

// NewGormCheckoutScope creates a new GormCheckoutScope
func NewGormCheckoutScope(db *gorm.DB) *GormCheckoutScope {
	return &GormCheckoutScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormCheckoutScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&checkoutRepositories{tx: tx})
	})
}

type checkoutRepositories struct {
	tx *gorm.DB
}

func (r *checkoutRepositories) Carts() cart.Repository {
	return NewGormCartRepository(r.tx)
}

func (r *checkoutRepositories) Variants() catalog.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

func (r *checkoutRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

func (r *checkoutRepositories) Ledger() inventory.Repository {
	return NewGormLedgerRepository(r.tx)
}

func (r *checkoutRepositories) Coupons() order.CouponRepository {
	return NewGormCouponRepository(r.tx)
}

func (r *checkoutRepositories) Addresses() identity.AddressRepository {
	return NewGormAddressRepository(r.tx)
}

// GormStockScope implements the stock adjustment transaction scope using
// GORM transactions
type GormStockScope struct {
	db *gorm.DB
}

// NewGormStockScope creates a new GormStockScope
func NewGormStockScope(db *gorm.DB) *GormStockScope {
	return &GormStockScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormStockScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&stockRepositories{tx: tx})
	})
}

type stockRepositories struct {
	tx *gorm.DB
}

func (r *stockRepositories) Variants() catalog.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

func (r *stockRepositories) Ledger() inventory.Repository {
	return NewGormLedgerRepository(r.tx)
}

// GormCatalogScope implements the catalog transaction scope using GORM
// transactions
type GormCatalogScope struct {
	db *gorm.DB
}

// NewGormCatalogScope creates a new GormCatalogScope
func NewGormCatalogScope(db *gorm.DB) *GormCatalogScope {
	return &GormCatalogScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormCatalogScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&catalogRepositories{tx: tx})
	})
}

type catalogRepositories struct {
	tx *gorm.DB
}

func (r *catalogRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *catalogRepositories) Variants() catalog.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

var (
	_ apporder.TransactionScope     = (*GormCheckoutScope)(nil)
	_ appinventory.TransactionScope = (*GormStockScope)(nil)
	_ appcatalog.TransactionScope   = (*GormCatalogScope)(nil)

	_ apporder.TransactionalRepositories     = (*checkoutRepositories)(nil)
	_ appinventory.TransactionalRepositories = (*stockRepositories)(nil)
	_ appcatalog.TransactionalRepositories   = (*catalogRepositories)(nil)
)
