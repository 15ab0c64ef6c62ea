package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
)

// Repository provides append and read access to the inventory ledger
type Repository interface {
	// Append inserts ledger entries. Entries are immutable once written.
	Append(ctx context.Context, entries ...*LedgerEntry) error

	// HistoryByVariant returns a variant's movements, newest first
	HistoryByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) (*shared.Paginated[LedgerEntry], error)

	// List returns ledger entries matching the filter. Supported filter
	// keys: variant_id, change_type.
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[LedgerEntry], error)
}
