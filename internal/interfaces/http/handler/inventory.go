package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/kiylo/backend/internal/application/inventory"
	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/interfaces/http/middleware"
	"github.com/kiylo/backend/internal/interfaces/http/router"
)

// InventoryHandler handles stock adjustment and ledger endpoints
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// RegisterRoutes registers inventory routes, all staff only
func (h *InventoryHandler) RegisterRoutes(g *router.DomainGroup) {
	g.Use(middleware.RequireAnyRole(identity.RoleAdmin, identity.RoleSuperAdmin))

	g.POST("/variants/:id/adjustments", h.Adjust)
	g.GET("/variants/:id/ledger", h.History)
	g.GET("/low-stock", h.LowStock)
}

// Adjust applies a manual stock change to a variant and records it in
// the ledger.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	variantID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid stock adjustment")
		return
	}

	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	result, err := h.stockService.Adjust(c.Request.Context(), variantID, req, &userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// History returns a page of ledger entries for a variant
func (h *InventoryHandler) History(c *gin.Context) {
	variantID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var filter inventoryapp.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err, "Invalid list parameters")
		return
	}

	entries, err := h.stockService.History(c.Request.Context(), variantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, entries)
}

// LowStock returns active variants at or below their reorder threshold
func (h *InventoryHandler) LowStock(c *gin.Context) {
	variants, err := h.stockService.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, variants)
}
