package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiylo/backend/internal/domain/inventory"
	"github.com/kiylo/backend/internal/domain/shared"
)

// GormLedgerRepository implements inventory.Repository using GORM.
// The ledger is append only; entries are never updated or deleted.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts ledger entries
func (r *GormLedgerRepository) Append(ctx context.Context, entries ...*inventory.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// HistoryByVariant returns a variant's movements, newest first, optionally
// narrowed to one change type
func (r *GormLedgerRepository) HistoryByVariant(ctx context.Context, variantID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.LedgerEntry], error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.LedgerEntry{}).
		Where("variant_id = ?", variantID)
	if changeType, ok := filter.Filters["change_type"]; ok {
		query = query.Where("change_type = ?", changeType)
	}
	return r.paginate(query, filter)
}

// List returns ledger entries matching the filter
func (r *GormLedgerRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[inventory.LedgerEntry], error) {
	query := r.db.WithContext(ctx).Model(&inventory.LedgerEntry{})
	for key, value := range filter.Filters {
		switch key {
		case "variant_id":
			query = query.Where("variant_id = ?", value)
		case "change_type":
			query = query.Where("change_type = ?", value)
		case "reference":
			query = query.Where("reference = ?", value)
		}
	}
	return r.paginate(query, filter)
}

func (r *GormLedgerRepository) paginate(query *gorm.DB, filter shared.Filter) (*shared.Paginated[inventory.LedgerEntry], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, LedgerSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entries []inventory.LedgerEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Ensure GormLedgerRepository implements inventory.Repository
var _ inventory.Repository = (*GormLedgerRepository)(nil)
