package catalog

import (
	"context"

	"github.com/kiylo/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to the catalog
// repositories. A product write replaces the product row and its whole
// variant set atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the catalog repositories
// within a transaction
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Variants() catalog.VariantRepository
}

// NoOpTransactionScope runs the function against plain repositories without
// a real transaction. Useful in tests.
type NoOpTransactionScope struct {
	products catalog.ProductRepository
	variants catalog.VariantRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(products catalog.ProductRepository, variants catalog.VariantRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{products: products, variants: variants}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.products }
func (s *NoOpTransactionScope) Variants() catalog.VariantRepository { return s.variants }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
