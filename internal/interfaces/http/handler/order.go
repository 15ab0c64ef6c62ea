package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/kiylo/backend/internal/application/order"
	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/interfaces/http/middleware"
	"github.com/kiylo/backend/internal/interfaces/http/router"
)

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	BaseHandler
	checkoutService *orderapp.CheckoutService
	orderService    *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService *orderapp.CheckoutService, orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService, orderService: orderService}
}

// RegisterRoutes registers checkout and order routes. Customers see
// only their own orders; listing everything and changing status are
// staff operations.
func (h *OrderHandler) RegisterRoutes(g *router.DomainGroup) {
	staff := middleware.RequireAnyRole(identity.RoleAdmin, identity.RoleSuperAdmin)

	g.POST("/checkout", h.Checkout)
	g.GET("/mine", h.ListMine)
	g.GET("/mine/:id", h.GetMine)
	g.GET("", staff, h.List)
	g.GET("/:id", staff, h.GetByID)
	g.PATCH("/:id/status", staff, h.UpdateStatus)
}

// Checkout converts the caller's cart into an order
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req orderapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid checkout request")
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListMine returns a page of the caller's orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err, "Invalid list parameters")
		return
	}

	orders, err := h.orderService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, orders)
}

// GetMine returns one of the caller's orders
func (h *OrderHandler) GetMine(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.orderService.GetForUser(c.Request.Context(), orderID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// List returns a page of all orders
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err, "Invalid list parameters")
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, orders)
}

// GetByID returns any order by ID
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdateStatus moves an order along its fulfilment lifecycle
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid status update")
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
