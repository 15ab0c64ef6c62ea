package cart

import (
	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// AddItemRequest represents a request to put a variant in the cart
type AddItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CartResponse represents the cart with live pricing. Line prices follow
// the current catalog until checkout snapshots them.
type CartResponse struct {
	ID       uuid.UUID         `json:"id"`
	Items    []cart.PricedItem `json:"items"`
	Subtotal decimal.Decimal   `json:"subtotal"`
}

// ToCartResponse assembles the priced cart view
func ToCartResponse(c *cart.Cart, items []cart.PricedItem) CartResponse {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	if items == nil {
		items = []cart.PricedItem{}
	}
	return CartResponse{
		ID:       c.ID,
		Items:    items,
		Subtotal: subtotal,
	}
}
