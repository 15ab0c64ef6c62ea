package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/kiylo/backend/internal/application/order"
	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/interfaces/http/dto"
	"github.com/kiylo/backend/internal/interfaces/http/middleware"
	"github.com/kiylo/backend/internal/interfaces/http/router"
)

// CouponHandler handles coupon administration endpoints
type CouponHandler struct {
	BaseHandler
	couponService *orderapp.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *orderapp.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// RegisterRoutes registers coupon routes, all staff only
func (h *CouponHandler) RegisterRoutes(g *router.DomainGroup) {
	g.Use(middleware.RequireAnyRole(identity.RoleAdmin, identity.RoleSuperAdmin))

	g.POST("", h.Create)
	g.GET("", h.List)
	g.POST("/:id/deactivate", h.Deactivate)
	g.DELETE("/:id", h.Delete)
}

// Create registers a coupon code
func (h *CouponHandler) Create(c *gin.Context) {
	var req orderapp.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid coupon")
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, coupon)
}

// List returns a page of coupons
func (h *CouponHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err, "Invalid list parameters")
		return
	}

	coupons, err := h.couponService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, coupons)
}

// Deactivate stops a coupon from being redeemed
func (h *CouponHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.couponService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Coupon deactivated"})
}

// Delete removes a coupon
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
