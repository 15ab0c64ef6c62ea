package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/shared"
)

// CartService handles cart reads and item changes for users and guests.
// Carts are created lazily on the first add; stock is only advised here,
// the hard check happens at checkout.
type CartService struct {
	carts    cart.Repository
	variants catalog.VariantRepository
}

// NewCartService creates a new CartService
func NewCartService(carts cart.Repository, variants catalog.VariantRepository) *CartService {
	return &CartService{carts: carts, variants: variants}
}

// Get returns the owner's cart with live pricing. An owner without a cart
// sees an empty one; nothing is persisted for them.
func (s *CartService) Get(ctx context.Context, owner cart.Owner) (*CartResponse, error) {
	if !owner.Valid() {
		return nil, shared.NewDomainError("INVALID_OWNER", "Cart must belong to exactly one user or guest")
	}
	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			empty, err := cart.NewCart(owner)
			if err != nil {
				return nil, err
			}
			resp := ToCartResponse(empty, nil)
			return &resp, nil
		}
		return nil, err
	}
	items, err := s.carts.FindPricedItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(c, items)
	return &resp, nil
}

// AddItem merges a variant into the owner's cart, creating the cart on
// first use. Adding the same variant again raises the line quantity.
func (s *CartService) AddItem(ctx context.Context, owner cart.Owner, req AddItemRequest) (*CartResponse, error) {
	if !owner.Valid() {
		return nil, shared.NewDomainError("INVALID_OWNER", "Cart must belong to exactly one user or guest")
	}
	variant, err := s.variants.FindByID(ctx, req.VariantID)
	if err != nil {
		return nil, err
	}
	if !variant.IsActive {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Variant %s is not available", variant.SKU)
	}

	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		c, err = cart.NewCart(owner)
		if err != nil {
			return nil, err
		}
	}
	if _, err := c.AddItem(req.VariantID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}

	items, err := s.carts.FindPricedItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(c, items)
	return &resp, nil
}

// RemoveItem drops a variant line from the owner's cart
func (s *CartService) RemoveItem(ctx context.Context, owner cart.Owner, variantID uuid.UUID) (*CartResponse, error) {
	if !owner.Valid() {
		return nil, shared.NewDomainError("INVALID_OWNER", "Cart must belong to exactly one user or guest")
	}
	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !c.RemoveItem(variantID) {
		return nil, shared.ErrNotFound
	}
	if err := s.carts.DeleteItem(ctx, c.ID, variantID); err != nil {
		return nil, err
	}

	items, err := s.carts.FindPricedItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(c, items)
	return &resp, nil
}

// Clear removes every line from the owner's cart
func (s *CartService) Clear(ctx context.Context, owner cart.Owner) error {
	if !owner.Valid() {
		return shared.NewDomainError("INVALID_OWNER", "Cart must belong to exactly one user or guest")
	}
	c, err := s.carts.FindByOwner(ctx, owner)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.carts.ClearItems(ctx, c.ID)
}
