package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/inventory"
	"github.com/kiylo/backend/internal/domain/order"
	"github.com/kiylo/backend/internal/domain/shared"
)

// CheckoutService converts a user's cart into a placed order. The whole
// conversion runs in one transaction: stock is validated and decremented
// under row locks, prices are snapshotted from the live catalog, ledger
// rows are appended, and the cart is emptied. Any failure rolls everything
// back, leaving stock, ledger and cart untouched.
type CheckoutService struct {
	scope TransactionScope
	carts cart.Repository
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(scope TransactionScope, carts cart.Repository) *CheckoutService {
	return &CheckoutService{scope: scope, carts: carts}
}

// Checkout places an order from the user's current cart
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	// An empty cart fails fast, before any transaction is opened.
	fastCart, err := s.carts.FindByOwner(ctx, cart.UserOwner(userID))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrCartEmpty
		}
		return nil, err
	}
	if fastCart.IsEmpty() {
		return nil, shared.ErrCartEmpty
	}

	var placed *order.Order
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Re-read inside the transaction: the cart may have changed
		// between the fast check and the locks below.
		userCart, err := repos.Carts().FindByOwner(ctx, cart.UserOwner(userID))
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrCartEmpty
			}
			return err
		}
		if userCart.IsEmpty() {
			return shared.ErrCartEmpty
		}

		address, err := repos.Addresses().FindByID(ctx, req.AddressID)
		if err != nil {
			return err
		}
		if !address.BelongsTo(userID) {
			return shared.NewDomainError("FORBIDDEN", "Address does not belong to this user")
		}

		lines, err := repos.Carts().FindPricedItems(ctx, userCart.ID)
		if err != nil {
			return err
		}

		variantIDs := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			variantIDs = append(variantIDs, line.VariantID)
		}

		// Locks serialize concurrent checkouts competing for the same
		// variants; the stock check below reads the locked rows.
		locked, err := repos.Variants().FindByIDsForUpdate(ctx, variantIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Variant, len(locked))
		for i := range locked {
			byID[locked[i].ID] = &locked[i]
		}

		for _, line := range lines {
			variant, ok := byID[line.VariantID]
			if !ok {
				return shared.NewDomainErrorf("NOT_FOUND", "Variant %s no longer exists", line.SKU)
			}
			if !variant.HasStock(line.Quantity) {
				return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
					"Insufficient stock for variant %s: have %d, want %d",
					variant.SKU, variant.StockQuantity, line.Quantity)
			}
		}

		placed = order.NewOrder(userID, req.AddressID, method)
		for _, line := range lines {
			if _, err := placed.AddItem(line.VariantID, line.Quantity, line.UnitPrice); err != nil {
				return err
			}
		}

		if req.CouponCode != "" {
			// The row lock serializes concurrent uses so the usage
			// limit cannot be overshot.
			coupon, err := repos.Coupons().FindByCodeForUpdate(ctx, req.CouponCode)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("COUPON_INVALID", "Coupon code not found")
				}
				return err
			}
			if err := coupon.Validate(placed.TotalAmount, time.Now()); err != nil {
				return err
			}
			if err := placed.ApplyDiscount(coupon.ID, coupon.DiscountFor(placed.TotalAmount)); err != nil {
				return err
			}
			coupon.RecordUse()
			if err := repos.Coupons().Save(ctx, coupon); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, placed); err != nil {
			return err
		}

		entries := make([]*inventory.LedgerEntry, 0, len(lines))
		for _, line := range lines {
			variant := byID[line.VariantID]
			if err := variant.Decrement(line.Quantity); err != nil {
				return err
			}
			if err := repos.Variants().Save(ctx, variant); err != nil {
				return err
			}
			entry, err := inventory.NewSaleEntry(line.VariantID, placed.ID, line.Quantity)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		if err := repos.Ledger().Append(ctx, entries...); err != nil {
			return err
		}

		return repos.Carts().ClearItems(ctx, userCart.ID)
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(placed)
	return &response, nil
}
