package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
)

// Repository provides access to orders and their items
type Repository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUser loads an order only if it belongs to the user
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Order, error)

	// ListByUser returns the user's orders, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[Order], error)

	// List returns all orders matching the filter. Supported filter keys:
	// status, user_id.
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[Order], error)

	// Save persists an order and its items
	Save(ctx context.Context, o *Order) error
}

// CouponRepository provides access to coupon codes
type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	// FindByCodeForUpdate loads the coupon under a row-level lock so
	// concurrent checkouts serialize their usage-count updates. Must be
	// called inside a transaction.
	FindByCodeForUpdate(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[Coupon], error)
	Save(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
}
