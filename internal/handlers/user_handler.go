package handlers

import (
	"net/http"

	"community_issues/internal/services"
	"community_issues/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
	authService services.AuthService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, authService services.AuthService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
		authService: authService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUser)
		users.POST("", h.CreateUser)
		users.PUT("", h.UpdateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("", h.DeleteUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

// GetUsers lists every account, or one with ?id=.
func (h *UserHandler) GetUsers(c *gin.Context) {
	if c.Query("id") != "" {
		h.GetUser(c)
		return
	}

	users, err := h.userService.GetUsers(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.ResolveID(c, nil)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser has the same contract as registration.
func (h *UserHandler) CreateUser(c *gin.Context) {
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

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	id, ok := h.ResolveID(c, req.ID)
	if !ok {
		return
	}

	if err := h.userService.UpdateUser(c.Request.Context(), h.GetDB(c), id, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "User updated successfully"})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	var req dto.DeleteRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}
	id, ok := h.ResolveID(c, req.ID)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "User deleted successfully"})
}
