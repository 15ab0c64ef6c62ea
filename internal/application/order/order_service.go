package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/order"
	"github.com/kiylo/backend/internal/domain/shared"
)

// OrderService handles order queries and administrative status changes
type OrderService struct {
	orders order.Repository
}

// NewOrderService creates a new OrderService
func NewOrderService(orders order.Repository) *OrderService {
	return &OrderService{orders: orders}
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetForUser retrieves an order only if it belongs to the user
func (s *OrderService) GetForUser(ctx context.Context, id, userID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// ListForUser returns the user's own orders, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orders.ListByUser(ctx, userID, filter.ToFilter())
	if err != nil {
		return nil, err
	}
	return mapPage(page), nil
}

// List returns all orders matching the filter (admin view)
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orders.List(ctx, filter.ToFilter())
	if err != nil {
		return nil, err
	}
	return mapPage(page), nil
}

// UpdateStatus moves an order along its fulfillment lifecycle
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.TransitionTo(target); err != nil {
		return nil, err
	}
	// delivery settles a cash-on-delivery order
	if target == order.StatusDelivered && o.PaymentMethod == order.PaymentCOD && o.PaymentStatus == order.PaymentUnpaid {
		o.MarkPaid()
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

func mapPage(page *shared.Paginated[order.Order]) *shared.Paginated[OrderResponse] {
	items := make([]OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, ToOrderResponse(&page.Items[i]))
	}
	return &shared.Paginated[OrderResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
