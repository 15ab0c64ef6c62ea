package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/inventory"
	"github.com/kiylo/backend/internal/domain/shared"
)

// StockService handles manual stock movements and ledger queries. Every
// adjustment writes a ledger row in the same transaction as the stock
// change, so the ledger always reconciles with the variant quantities.
type StockService struct {
	scope    TransactionScope
	variants catalog.VariantRepository
	ledger   inventory.Repository
}

// NewStockService creates a new StockService
func NewStockService(scope TransactionScope, variants catalog.VariantRepository, ledger inventory.Repository) *StockService {
	return &StockService{scope: scope, variants: variants, ledger: ledger}
}

// Adjust applies a signed stock change to a variant and records it in the
// ledger. recordedBy is the acting admin, when known.
func (s *StockService) Adjust(ctx context.Context, variantID uuid.UUID, req AdjustStockRequest, recordedBy *uuid.UUID) (*AdjustStockResponse, error) {
	if req.Change == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Stock change cannot be zero")
	}
	var changeType inventory.ChangeType
	if req.ChangeType != "" {
		parsed, err := inventory.ParseChangeType(req.ChangeType)
		if err != nil {
			return nil, err
		}
		changeType = parsed
	}

	var resp *AdjustStockResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		affected, err := repos.Variants().AdjustStock(ctx, variantID, req.Change)
		if err != nil {
			return err
		}
		if !affected {
			// Zero rows means either an unknown variant or a decrement
			// the stock guard refused; the re-read tells them apart.
			if _, err := repos.Variants().FindByID(ctx, variantID); err != nil {
				return err
			}
			return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
				"Stock change %d would take the variant below zero", req.Change)
		}
		variant, err := repos.Variants().FindByID(ctx, variantID)
		if err != nil {
			return err
		}

		entry, err := inventory.NewAdjustmentEntry(variantID, req.Change, changeType, req.Note, recordedBy)
		if err != nil {
			return err
		}
		if err := repos.Ledger().Append(ctx, entry); err != nil {
			return err
		}

		resp = &AdjustStockResponse{
			VariantID:     variant.ID,
			SKU:           variant.SKU,
			Change:        req.Change,
			StockQuantity: variant.StockQuantity,
			LedgerEntryID: entry.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// History returns a variant's ledger entries, newest first
func (s *StockService) History(ctx context.Context, variantID uuid.UUID, filter HistoryFilter) (*shared.Paginated[LedgerEntryResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.ChangeType != "" {
		f.Filters["change_type"] = filter.ChangeType
	}

	page, err := s.ledger.HistoryByVariant(ctx, variantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]LedgerEntryResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToLedgerEntryResponse(&page.Items[i]))
	}
	return &shared.Paginated[LedgerEntryResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// LowStock lists variants at or below their reorder threshold
func (s *StockService) LowStock(ctx context.Context) ([]LowStockVariantResponse, error) {
	variants, err := s.variants.FindBelowThreshold(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	out := make([]LowStockVariantResponse, 0, len(variants))
	for i := range variants {
		out = append(out, ToLowStockVariantResponse(&variants[i]))
	}
	return out, nil
}
