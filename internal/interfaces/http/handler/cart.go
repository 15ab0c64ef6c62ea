package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartapp "github.com/kiylo/backend/internal/application/cart"
	"github.com/kiylo/backend/internal/domain/cart"
	"github.com/kiylo/backend/internal/interfaces/http/dto"
	"github.com/kiylo/backend/internal/interfaces/http/middleware"
	"github.com/kiylo/backend/internal/interfaces/http/router"
)

// CartHandler handles shopping cart endpoints for both authenticated
// users and anonymous guests.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("", h.Get)
	g.POST("/items", h.AddItem)
	g.DELETE("/items/:variant_id", h.RemoveItem)
	g.DELETE("", h.Clear)
}

// owner resolves the cart owner: the authenticated user when a token
// is present, otherwise the guest token from the X-Guest-ID header.
func (h *CartHandler) owner(c *gin.Context) (cart.Owner, bool) {
	if claims, ok := middleware.GetClaims(c); ok {
		userID, err := claims.GetUserUUID()
		if err == nil {
			return cart.UserOwner(userID), true
		}
	}
	if guestID := middleware.GuestID(c); guestID != "" {
		return cart.GuestOwner(guestID), true
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest,
		"Provide a Bearer token or an X-Guest-ID header", middleware.GetRequestID(c)))
	return cart.Owner{}, false
}

// Get returns the caller's cart with live pricing
func (h *CartHandler) Get(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	result, err := h.cartService.Get(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AddItem puts a variant in the cart or bumps its quantity
func (h *CartHandler) AddItem(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid cart item")
		return
	}

	result, err := h.cartService.AddItem(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveItem takes a variant out of the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	variantID, ok := h.ParseUUIDParam(c, "variant_id")
	if !ok {
		return
	}

	result, err := h.cartService.RemoveItem(c.Request.Context(), owner, variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), owner); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
