package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	o := NewOrder(uuid.New(), uuid.New(), PaymentCOD)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentUnpaid, o.PaymentStatus)
	assert.Equal(t, PaymentCOD, o.PaymentMethod)
	assert.True(t, o.TotalAmount.IsZero())
	assert.True(t, o.PayableAmount.IsZero())
	assert.Empty(t, o.Items)
}

func TestOrderAddItem(t *testing.T) {
	t.Run("snapshots price and accumulates totals", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCOD)

		_, err := o.AddItem(uuid.New(), 2, decimal.NewFromFloat(15.50))
		require.NoError(t, err)
		item, err := o.AddItem(uuid.New(), 1, decimal.NewFromFloat(15.50))
		require.NoError(t, err)

		assert.True(t, item.PriceAtPurchase.Equal(decimal.NewFromFloat(15.50)))
		assert.True(t, o.TotalAmount.Equal(decimal.NewFromFloat(46.50)))
		assert.True(t, o.PayableAmount.Equal(decimal.NewFromFloat(46.50)))
		assert.Len(t, o.Items, 2)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCOD)
		_, err := o.AddItem(uuid.New(), 0, decimal.NewFromInt(10))
		require.Error(t, err)
	})
}

func TestOrderApplyDiscount(t *testing.T) {
	t.Run("reduces payable by the discount", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCard)
		_, err := o.AddItem(uuid.New(), 2, decimal.NewFromInt(50))
		require.NoError(t, err)

		couponID := uuid.New()
		require.NoError(t, o.ApplyDiscount(couponID, decimal.NewFromInt(20)))

		require.NotNil(t, o.CouponID)
		assert.Equal(t, couponID, *o.CouponID)
		assert.True(t, o.DiscountAmount.Equal(decimal.NewFromInt(20)))
		assert.True(t, o.PayableAmount.Equal(decimal.NewFromInt(80)))
	})

	t.Run("caps discount at the order total", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCard)
		_, err := o.AddItem(uuid.New(), 1, decimal.NewFromInt(10))
		require.NoError(t, err)

		require.NoError(t, o.ApplyDiscount(uuid.New(), decimal.NewFromInt(25)))
		assert.True(t, o.PayableAmount.IsZero())
	})

	t.Run("rejects negative discount", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCard)
		assert.Error(t, o.ApplyDiscount(uuid.New(), decimal.NewFromInt(-5)))
	})
}

func TestOrderTransitions(t *testing.T) {
	t.Run("follows the fulfillment chain", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCOD)

		require.NoError(t, o.TransitionTo(StatusProcessing))
		require.NoError(t, o.TransitionTo(StatusShipped))
		require.NoError(t, o.TransitionTo(StatusDelivered))
		require.NoError(t, o.TransitionTo(StatusRefunded))
	})

	t.Run("allows cancelling before shipment", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCOD)
		require.NoError(t, o.TransitionTo(StatusCancelled))
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("refuses skipping states", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCOD)
		err := o.TransitionTo(StatusDelivered)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot move from pending to delivered")
	})

	t.Run("refuses cancelling a shipped order", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCOD)
		require.NoError(t, o.TransitionTo(StatusProcessing))
		require.NoError(t, o.TransitionTo(StatusShipped))
		assert.Error(t, o.TransitionTo(StatusCancelled))
	})

	t.Run("refunded is terminal", func(t *testing.T) {
		o := NewOrder(uuid.New(), uuid.New(), PaymentCOD)
		require.NoError(t, o.TransitionTo(StatusCancelled))
		require.NoError(t, o.TransitionTo(StatusRefunded))
		assert.Error(t, o.TransitionTo(StatusPending))
	})
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "processing", "shipped", "delivered", "cancelled", "refunded"} {
		s, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), s)
	}

	_, err := ParseStatus("archived")
	assert.Error(t, err)
}

func TestParsePaymentMethod(t *testing.T) {
	t.Run("defaults empty to cod", func(t *testing.T) {
		m, err := ParsePaymentMethod("")
		require.NoError(t, err)
		assert.Equal(t, PaymentCOD, m)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := ParsePaymentMethod("barter")
		assert.Error(t, err)
	})
}

func TestCouponDiscountFor(t *testing.T) {
	t.Run("percentage discount", func(t *testing.T) {
		c, err := NewCoupon("SAVE10", DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)

		got := c.DiscountFor(decimal.NewFromInt(200))
		assert.True(t, got.Equal(decimal.NewFromInt(20)))
	})

	t.Run("fixed discount capped at order total", func(t *testing.T) {
		c, err := NewCoupon("FLAT50", DiscountFixed, decimal.NewFromInt(50))
		require.NoError(t, err)

		got := c.DiscountFor(decimal.NewFromInt(30))
		assert.True(t, got.Equal(decimal.NewFromInt(30)))
	})

	t.Run("max discount cap applies", func(t *testing.T) {
		c, err := NewCoupon("SAVE50", DiscountPercentage, decimal.NewFromInt(50))
		require.NoError(t, err)
		c.MaxDiscount = decimal.NewNullDecimal(decimal.NewFromInt(40))

		got := c.DiscountFor(decimal.NewFromInt(200))
		assert.True(t, got.Equal(decimal.NewFromInt(40)))
	})
}

func TestCouponValidate(t *testing.T) {
	now := time.Now()

	t.Run("valid coupon passes", func(t *testing.T) {
		c, err := NewCoupon("SAVE10", DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.NoError(t, c.Validate(decimal.NewFromInt(100), now))
	})

	t.Run("inactive coupon fails", func(t *testing.T) {
		c, err := NewCoupon("SAVE10", DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		c.IsActive = false
		assert.Error(t, c.Validate(decimal.NewFromInt(100), now))
	})

	t.Run("expired coupon fails", func(t *testing.T) {
		c, err := NewCoupon("SAVE10", DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		past := now.Add(-time.Hour)
		c.ExpiresAt = &past
		assert.Error(t, c.Validate(decimal.NewFromInt(100), now))
	})

	t.Run("usage limit enforced", func(t *testing.T) {
		c, err := NewCoupon("SAVE10", DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		limit := 1
		c.UsageLimit = &limit
		c.RecordUse()
		assert.Error(t, c.Validate(decimal.NewFromInt(100), now))
	})

	t.Run("minimum order value enforced", func(t *testing.T) {
		c, err := NewCoupon("SAVE10", DiscountPercentage, decimal.NewFromInt(10))
		require.NoError(t, err)
		c.MinOrderValue = decimal.NewNullDecimal(decimal.NewFromInt(50))
		assert.Error(t, c.Validate(decimal.NewFromInt(40), now))
		assert.NoError(t, c.Validate(decimal.NewFromInt(50), now))
	})
}
