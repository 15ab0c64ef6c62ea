package inventory

import (
	"context"

	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a
// stock adjustment touches. The variant update and the ledger append
// commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories
// within a transaction
type TransactionalRepositories interface {
	Variants() catalog.VariantRepository
	Ledger() inventory.Repository
}

// NoOpTransactionScope runs the function against plain repositories without
// a real transaction. Useful in tests.
type NoOpTransactionScope struct {
	variants catalog.VariantRepository
	ledger   inventory.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(variants catalog.VariantRepository, ledger inventory.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{variants: variants, ledger: ledger}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Variants() catalog.VariantRepository { return s.variants }
func (s *NoOpTransactionScope) Ledger() inventory.Repository        { return s.ledger }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
