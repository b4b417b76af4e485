package handlers

import (
	"net/http"

	"community_issues/internal/services"
	"community_issues/internal/services/dto"
	"community_issues/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Values of the ?action= parameter on /auth.
const (
	actionRegister     = "register"
	actionLogin        = "login"
	actionVerify       = "verify"
	actionReapply      = "reapply"
	actionVerifyStatus = "verify-status"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes mounts the single /auth endpoint; the operation is chosen by
// the action query parameter.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("", h.HandlePost)
		auth.GET("", h.HandleGet)
	}
}

// HandlePost godoc
// @Summary Account actions
// @Description action=register|login|verify|reapply
// @Tags auth
// @Accept json
// @Produce json
// @Param action query string true "register, login, verify or reapply"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /auth [post]
func (h *AuthHandler) HandlePost(c *gin.Context) {
	switch c.Query("action") {
	case actionRegister:
		h.Register(c)
	case actionLogin:
		h.Login(c)
	case actionVerify:
		h.Verify(c)
	case actionReapply:
		h.Reapply(c)
	default:
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid action"))
	}
}

// HandleGet godoc
// @Summary Verification status
// @Tags auth
// @Produce json
// @Param action query string true "verify-status"
// @Param userId query int true "User ID"
// @Success 200 {object} dto.VerificationStatusResponse
// @Router /auth [get]
func (h *AuthHandler) HandleGet(c *gin.Context) {
	if c.Query("action") != actionVerifyStatus {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid action"))
		return
	}
	h.VerificationStatus(c)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req, c.ClientIP())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResolveVerification(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Admin verification status updated successfully"})
}

func (h *AuthHandler) Reapply(c *gin.Context) {
	var req dto.ReapplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.Reapply(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Verification request submitted. Your account is pending verification."})
}

func (h *AuthHandler) VerificationStatus(c *gin.Context) {
	raw := c.Query("userId")
	if raw == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("User ID is required"))
		return
	}
	userID, err := dto.ParseID(raw)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid user ID"))
		return
	}

	resp, err := h.authService.VerificationStatus(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
