package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/shared"
)

// GormVariantRepository implements catalog.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByIDsForUpdate loads variants under FOR UPDATE row locks so concurrent
// checkouts serialize on the variants they share. Must run inside a
// transaction. SQLite has no row locks; its single writer gives the same
// guarantee in tests.
func (r *GormVariantRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	if len(ids) == 0 {
		return []catalog.Variant{}, nil
	}

	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var variants []catalog.Variant
	if err := query.Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// ReplaceForProduct deletes the product's variant set and inserts the given
// one. Destructive; cart lines referencing removed variants go with them.
func (r *GormVariantRepository) ReplaceForProduct(ctx context.Context, productID uuid.UUID, variants []catalog.Variant) error {
	db := r.db.WithContext(ctx)

	// cart lines keep their foreign key valid
	if err := db.Exec(
		"DELETE FROM cart_items WHERE variant_id IN (SELECT id FROM product_variants WHERE product_id = ?)",
		productID,
	).Error; err != nil {
		return err
	}

	if err := db.Delete(&catalog.Variant{}, "product_id = ?", productID).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	return db.Create(&variants).Error
}

// AdjustStock applies a signed change to a variant's stock. The guard in the
// WHERE clause refuses changes that would take stock below zero; callers
// translate zero affected rows into not found or insufficient stock.
func (r *GormVariantRepository) AdjustStock(ctx context.Context, id uuid.UUID, change int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("id = ? AND stock_quantity + ? >= 0", id, change).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", change))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// FindBelowThreshold finds variants at or below their reorder threshold
func (r *GormVariantRepository) FindBelowThreshold(ctx context.Context, filter shared.Filter) ([]catalog.Variant, error) {
	query := r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("is_active = ? AND stock_quantity <= reorder_threshold", true).
		Order("stock_quantity ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var variants []catalog.Variant
	if err := query.Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Ensure GormVariantRepository implements VariantRepository
var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
