package handlers

import (
	"net/http"

	"community_issues/internal/services"
	"community_issues/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	*BaseHandler
	commentService services.CommentService
}

func NewCommentHandler(base *BaseHandler, commentService services.CommentService) *CommentHandler {
	return &CommentHandler{
		BaseHandler:    base,
		commentService: commentService,
	}
}

func (h *CommentHandler) RegisterRoutes(r *gin.RouterGroup) {
	comments := r.Group("/reports/:id/comments")
	{
		comments.GET("", h.GetComments)
		comments.POST("", h.CreateComment)
	}
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	reportID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	comments, err := h.commentService.GetComments(c.Request.Context(), h.GetDB(c), reportID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	reportID, err := ParseParamID(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.CreateCommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), h.GetDB(c), reportID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
