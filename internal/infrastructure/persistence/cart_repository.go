package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/kiylo/backend/internal/domain/shared"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByOwner returns the owner's cart with items loaded
func (r *GormCartRepository) FindByOwner(ctx context.Context, owner cart.Owner) (*cart.Cart, error) {
	if !owner.Valid() {
		return nil, shared.ErrInvalidInput
	}

	query := r.db.WithContext(ctx).Preload("Items")
	if owner.UserID != nil {
		query = query.Where("user_id = ?", *owner.UserID)
	} else {
		query = query.Where("guest_id = ?", owner.GuestID)
	}

	var c cart.Cart
	if err := query.First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindPricedItems joins cart lines with live variant and product pricing.
// The unit price is the variant override when set, otherwise the product
// base price plus the variant adjustment.
func (r *GormCartRepository) FindPricedItems(ctx context.Context, cartID uuid.UUID) ([]cart.PricedItem, error) {
	var items []cart.PricedItem
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id AS item_id,
			cart_items.variant_id,
			products.id AS product_id,
			products.name AS product_name,
			product_variants.sku,
			product_variants.color,
			product_variants.size,
			cart_items.quantity,
			COALESCE(product_variants.price, products.base_price + product_variants.price_adjustment) AS unit_price,
			COALESCE(product_variants.price, products.base_price + product_variants.price_adjustment) * cart_items.quantity AS line_total,
			product_variants.stock_quantity`).
		Joins("JOIN product_variants ON product_variants.id = cart_items.variant_id").
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.created_at ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a cart and its items. The association save does
// not touch existing child rows, so item lines are upserted explicitly:
// a merged quantity lands as an update on the (cart_id, variant_id) line.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(c).Error; err != nil {
			return err
		}
		if len(c.Items) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).Create(&c.Items).Error
	})
}

// DeleteItem removes a single line from a cart
func (r *GormCartRepository) DeleteItem(ctx context.Context, cartID, variantID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&cart.Item{}, "cart_id = ? AND variant_id = ?", cartID, variantID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearItems removes every line from a cart; the cart row persists
func (r *GormCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&cart.Item{}, "cart_id = ?", cartID).Error
}

// Ensure GormCartRepository implements cart.Repository
var _ cart.Repository = (*GormCartRepository)(nil)
