package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/kiylo/backend/internal/application/catalog"
	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/interfaces/http/dto"
	"github.com/kiylo/backend/internal/interfaces/http/middleware"
	"github.com/kiylo/backend/internal/interfaces/http/router"
)

// BrandHandler handles brand endpoints
type BrandHandler struct {
	BaseHandler
	brandService *catalogapp.BrandService
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(brandService *catalogapp.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// RegisterRoutes registers brand routes
func (h *BrandHandler) RegisterRoutes(g *router.DomainGroup) {
	staff := middleware.RequireAnyRole(identity.RoleAdmin, identity.RoleSuperAdmin)

	g.GET("/brands", h.List)
	g.GET("/brands/:id", h.GetByID)
	g.POST("/brands", staff, h.Create)
	g.PUT("/brands/:id", staff, h.Update)
	g.DELETE("/brands/:id", staff, h.Delete)
}

// List returns all brands matching the filter
func (h *BrandHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err, "Invalid list parameters")
		return
	}

	brands, err := h.brandService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brands)
}

// GetByID returns a single brand
func (h *BrandHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	brand, err := h.brandService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Create adds a brand
func (h *BrandHandler) Create(c *gin.Context) {
	var req catalogapp.BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid brand")
		return
	}

	brand, err := h.brandService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brand)
}

// Update modifies a brand
func (h *BrandHandler) Update(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalogapp.BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid brand")
		return
	}

	brand, err := h.brandService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// Delete removes a brand
func (h *BrandHandler) Delete(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.brandService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
