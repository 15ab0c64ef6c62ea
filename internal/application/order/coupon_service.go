package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/order"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateCouponRequest represents a request to create a coupon
type CreateCouponRequest struct {
	Code          string           `json:"code" binding:"required"`
	DiscountType  string           `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal  `json:"discount_value" binding:"required"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount"`
	UsageLimit    *int             `json:"usage_limit"`
	ExpiresAt     *time.Time       `json:"expires_at"`
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID            uuid.UUID        `json:"id"`
	Code          string           `json:"code"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinOrderValue *decimal.Decimal `json:"min_order_value,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
	UsedCount     int              `json:"used_count"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
	IsActive      bool             `json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CouponService handles coupon administration
type CouponService struct {
	coupons order.CouponRepository
}

// NewCouponService creates a new CouponService
func NewCouponService(coupons order.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

// Create registers a new coupon code
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	coupon, err := order.NewCoupon(req.Code, order.DiscountType(req.DiscountType), req.DiscountValue)
	if err != nil {
		return nil, err
	}
	if req.MinOrderValue != nil {
		coupon.MinOrderValue = decimal.NewNullDecimal(*req.MinOrderValue)
	}
	if req.MaxDiscount != nil {
		coupon.MaxDiscount = decimal.NewNullDecimal(*req.MaxDiscount)
	}
	coupon.UsageLimit = req.UsageLimit
	coupon.ExpiresAt = req.ExpiresAt

	if err := s.coupons.Save(ctx, coupon); err != nil {
		return nil, err
	}
	response := toCouponResponse(coupon)
	return &response, nil
}

// List returns coupons matching the filter
func (s *CouponService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CouponResponse], error) {
	page, err := s.coupons.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CouponResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toCouponResponse(&page.Items[i]))
	}
	return &shared.Paginated[CouponResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Deactivate turns a coupon off without deleting its usage history
func (s *CouponService) Deactivate(ctx context.Context, id uuid.UUID) error {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return err
	}
	coupon.IsActive = false
	coupon.Touch()
	return s.coupons.Save(ctx, coupon)
}

// Delete removes a coupon
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.coupons.Delete(ctx, id)
}

func toCouponResponse(c *order.Coupon) CouponResponse {
	resp := CouponResponse{
		ID:            c.ID,
		Code:          c.Code,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		UsageLimit:    c.UsageLimit,
		UsedCount:     c.UsedCount,
		ExpiresAt:     c.ExpiresAt,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
	}
	if c.MinOrderValue.Valid {
		v := c.MinOrderValue.Decimal
		resp.MinOrderValue = &v
	}
	if c.MaxDiscount.Valid {
		v := c.MaxDiscount.Decimal
		resp.MaxDiscount = &v
	}
	return resp
}
