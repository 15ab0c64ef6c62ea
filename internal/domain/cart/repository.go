package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricedItem is a cart line joined with live variant and product pricing.
// Prices here are never snapshotted; checkout snapshots them into the order.
type PricedItem struct {
	ItemID        uuid.UUID       `json:"item_id"`
	VariantID     uuid.UUID       `json:"variant_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	Color         string          `json:"color,omitempty"`
	Size          string          `json:"size,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
	StockQuantity int             `json:"stock_quantity"`
}

// Repository persists carts and their items
type Repository interface {
	// FindByOwner returns the owner's cart with items loaded, or
	// shared.ErrNotFound if the owner has no cart yet.
	FindByOwner(ctx context.Context, owner Owner) (*Cart, error)
	// FindPricedItems returns the cart's lines joined with current variant
	// and product pricing (absolute override or base + adjustment).
	FindPricedItems(ctx context.Context, cartID uuid.UUID) ([]PricedItem, error)
	Save(ctx context.Context, cart *Cart) error
	DeleteItem(ctx context.Context, cartID, variantID uuid.UUID) error
	// ClearItems removes every item from the cart; the cart row persists.
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}
