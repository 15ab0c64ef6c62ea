package order

import (
	"strings"
	"time"

	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DiscountType determines how a coupon value is interpreted
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code applied at checkout
type Coupon struct {
	shared.BaseEntity
	Code          string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	DiscountType  DiscountType        `gorm:"type:varchar(20);not null"`
	DiscountValue decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	MinOrderValue decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	MaxDiscount   decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	UsageLimit    *int                `gorm:""`
	UsedCount     int                 `gorm:"not null;default:0"`
	ExpiresAt     *time.Time          `gorm:""`
	IsActive      bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NewCoupon creates an active coupon with the given code and value
func NewCoupon(code string, discountType DiscountType, value decimal.Decimal) (*Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Coupon code is required")
	}
	if discountType != DiscountPercentage && discountType != DiscountFixed {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "Invalid discount type %q", discountType)
	}
	if !value.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Discount value must be positive")
	}
	if discountType == DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Percentage discount cannot exceed 100")
	}
	return &Coupon{
		BaseEntity:    shared.NewBaseEntity(),
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: value,
		IsActive:      true,
	}, nil
}

// Validate checks the coupon can be applied to an order of the given total
func (c *Coupon) Validate(orderTotal decimal.Decimal, now time.Time) error {
	if !c.IsActive {
		return shared.NewDomainError("COUPON_INVALID", "Coupon is not active")
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return shared.NewDomainError("COUPON_INVALID", "Coupon has expired")
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return shared.NewDomainError("COUPON_INVALID", "Coupon usage limit reached")
	}
	if c.MinOrderValue.Valid && orderTotal.LessThan(c.MinOrderValue.Decimal) {
		return shared.NewDomainErrorf("COUPON_INVALID",
			"Order total must be at least %s to use this coupon", c.MinOrderValue.Decimal.StringFixed(2))
	}
	return nil
}

// DiscountFor computes the discount for an order total, capped by
// MaxDiscount and never exceeding the total itself.
func (c *Coupon) DiscountFor(orderTotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		discount = orderTotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	case DiscountFixed:
		discount = c.DiscountValue
	}
	if c.MaxDiscount.Valid && discount.GreaterThan(c.MaxDiscount.Decimal) {
		discount = c.MaxDiscount.Decimal
	}
	if discount.GreaterThan(orderTotal) {
		discount = orderTotal
	}
	return discount
}

// RecordUse increments the coupon usage counter
func (c *Coupon) RecordUse() {
	c.UsedCount++
	c.Touch()
}
