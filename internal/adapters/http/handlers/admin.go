package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-catalog/internal/app"
)

// AdminHandler handles the operator credential check.
type AdminHandler struct {
	admin *app.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin *app.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// LoginRequest is the request body for the credential check.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse confirms a valid credential pair. There is no session or
// token; admin requests re-present the credential via basic auth.
type LoginResponse struct {
	Authenticated bool `json:"authenticated"`
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		handleBindError(c, err)
		return
	}

	if err := h.admin.Authenticate(c.Request.Context(), req.Username, req.Password); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Authenticated: true})
}

// RegisterAdminRoutes registers admin routes.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/login", h.Login)
}
