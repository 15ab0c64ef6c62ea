package order

import (
	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// ParseStatus validates a status string
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return Status(s), nil
	}
	return "", shared.NewDomainErrorf("INVALID_INPUT", "Invalid order status %q", s)
}

// PaymentMethod is how the customer intends to pay. The method is recorded,
// not verified; payment processing is out of scope.
type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
)

// ParsePaymentMethod validates a payment method string, defaulting to COD
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return PaymentCOD, nil
	}
	switch PaymentMethod(s) {
	case PaymentCOD, PaymentCard, PaymentWallet:
		return PaymentMethod(s), nil
	}
	return "", shared.NewDomainErrorf("INVALID_INPUT", "Invalid payment method %q", s)
}

// PaymentStatus tracks whether the order has been paid
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentFailed        PaymentStatus = "failed"
)

// Order is the aggregate root for a placed order. Totals are fixed at
// creation; later catalog price changes never alter a placed order.
type Order struct {
	shared.BaseEntity
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	AddressID      uuid.UUID       `gorm:"type:uuid;not null"`
	CouponID       *uuid.UUID      `gorm:"type:uuid"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PayableAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status         Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null;default:'cod'"`

	Items []Item `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Item is a purchased line with its unit price snapshotted at purchase time
type Item struct {
	shared.BaseEntity
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        int             `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// LineTotal returns quantity times the snapshotted unit price
func (i *Item) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrder creates a pending, unpaid order shell for the given user
func NewOrder(userID, addressID uuid.UUID, method PaymentMethod) *Order {
	return &Order{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		AddressID:      addressID,
		TotalAmount:    decimal.Zero,
		DiscountAmount: decimal.Zero,
		PayableAmount:  decimal.Zero,
		Status:         StatusPending,
		PaymentStatus:  PaymentUnpaid,
		PaymentMethod:  method,
	}
}

// AddItem snapshots a purchased line and accumulates the order totals
func (o *Order) AddItem(variantID uuid.UUID, quantity int, unitPrice decimal.Decimal) (*Item, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	item := Item{
		BaseEntity:      shared.NewBaseEntity(),
		OrderID:         o.ID,
		VariantID:       variantID,
		Quantity:        quantity,
		PriceAtPurchase: unitPrice,
	}
	o.Items = append(o.Items, item)
	o.TotalAmount = o.TotalAmount.Add(item.LineTotal())
	o.PayableAmount = o.TotalAmount.Sub(o.DiscountAmount)
	return &o.Items[len(o.Items)-1], nil
}

// ApplyDiscount applies a coupon discount to the order totals
func (o *Order) ApplyDiscount(couponID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Discount cannot be negative")
	}
	if amount.GreaterThan(o.TotalAmount) {
		amount = o.TotalAmount
	}
	o.CouponID = &couponID
	o.DiscountAmount = amount
	o.PayableAmount = o.TotalAmount.Sub(amount)
	return nil
}

// CanTransitionTo reports whether the status move is an allowed
// administrative action.
func (o *Order) CanTransitionTo(target Status) bool {
	switch o.Status {
	case StatusPending:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered:
		return target == StatusRefunded
	case StatusCancelled:
		return target == StatusRefunded
	default:
		return false
	}
}

// TransitionTo moves the order to the target status
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return shared.NewDomainErrorf("INVALID_STATE",
			"Order cannot move from %s to %s", o.Status, target)
	}
	o.Status = target
	o.Touch()
	return nil
}

// MarkPaid records a successful payment against the order
func (o *Order) MarkPaid() {
	o.PaymentStatus = PaymentPaid
	o.Touch()
}
