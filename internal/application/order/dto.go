package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/order"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CheckoutRequest represents a request to convert the caller's cart into an order
type CheckoutRequest struct {
	AddressID     uuid.UUID `json:"address_id" binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"omitempty,oneof=cod card wallet"`
	CouponCode    string    `json:"coupon_code"`
}

// UpdateStatusRequest represents an administrative status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse represents a purchased line in API responses
type OrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	VariantID       uuid.UUID       `json:"variant_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"user_id"`
	AddressID      uuid.UUID           `json:"address_id"`
	CouponID       *uuid.UUID          `json:"coupon_id,omitempty"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	PayableAmount  decimal.Decimal     `json:"payable_amount"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	PaymentMethod  string              `json:"payment_method"`
	Items          []OrderItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Status   string     `form:"status"`
	UserID   *uuid.UUID `form:"user_id"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToOrderResponse converts an order entity to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:              item.ID,
			VariantID:       item.VariantID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			LineTotal:       item.LineTotal(),
		})
	}
	return OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		AddressID:      o.AddressID,
		CouponID:       o.CouponID,
		TotalAmount:    o.TotalAmount,
		DiscountAmount: o.DiscountAmount,
		PayableAmount:  o.PayableAmount,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		PaymentMethod:  string(o.PaymentMethod),
		Items:          items,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToFilter converts the list filter to a repository filter
func (f OrderListFilter) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.UserID != nil {
		filter.Filters["user_id"] = *f.UserID
	}
	return filter
}
