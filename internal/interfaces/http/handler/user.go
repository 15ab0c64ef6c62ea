package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/kiylo/backend/internal/application/identity"
	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/interfaces/http/dto"
	"github.com/kiylo/backend/internal/interfaces/http/middleware"
	"github.com/kiylo/backend/internal/interfaces/http/router"
)

// UserHandler handles profile, address book and user administration
type UserHandler struct {
	BaseHandler
	userService    *identityapp.UserService
	addressService *identityapp.AddressService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService, addressService *identityapp.AddressService) *UserHandler {
	return &UserHandler{userService: userService, addressService: addressService}
}

// RegisterRoutes registers profile and address routes
func (h *UserHandler) RegisterRoutes(g *router.DomainGroup) {
	g.GET("/me", h.Me)
	g.PUT("/me", h.UpdateProfile)
	g.GET("/me/addresses", h.ListAddresses)
	g.POST("/me/addresses", h.CreateAddress)
	g.PUT("/me/addresses/:id", h.UpdateAddress)
	g.POST("/me/addresses/:id/default", h.SetDefaultAddress)
	g.DELETE("/me/addresses/:id", h.DeleteAddress)
}

// RegisterAdminRoutes registers user administration routes
func (h *UserHandler) RegisterAdminRoutes(g *router.DomainGroup) {
	admin := middleware.RequireAnyRole(identity.RoleAdmin, identity.RoleSuperAdmin)
	g.GET("/users", admin, h.List)
	g.GET("/users/:id", admin, h.GetByID)
	g.POST("/users/:id/deactivate", admin, h.Deactivate)
}

// Me returns the caller's profile
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateProfile updates the caller's profile fields
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req identityapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid profile update request")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ListAddresses returns the caller's address book
func (h *UserHandler) ListAddresses(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	addresses, err := h.addressService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, addresses)
}

// CreateAddress adds an address to the caller's address book
func (h *UserHandler) CreateAddress(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var req identityapp.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid address")
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, address)
}

// UpdateAddress replaces an address owned by the caller
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	addressID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req identityapp.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid address")
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), userID, addressID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, address)
}

// SetDefaultAddress marks an address as the caller's default
func (h *UserHandler) SetDefaultAddress(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	addressID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.addressService.SetDefault(c.Request.Context(), userID, addressID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Default address updated"})
}

// DeleteAddress removes an address owned by the caller
func (h *UserHandler) DeleteAddress(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	addressID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), userID, addressID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List returns a page of user accounts
func (h *UserHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err, "Invalid list parameters")
		return
	}

	users, err := h.userService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, users)
}

// GetByID returns a single user account
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Deactivate disables a user account
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Account deactivated"})
}
