package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"community_issues/internal/feed"
	"community_issues/internal/logger"
	"community_issues/internal/models"
	"community_issues/internal/services"
	"community_issues/internal/services/dto"
	"community_issues/pkg/apperrors"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
	poller              *feed.Poller
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService, poller *feed.Poller) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
		poller:              poller,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.GetNotifications)
		notifications.GET("/stream", h.Stream)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.GET("/:id", h.GetNotification)
		notifications.PUT("/:id", h.MarkAsRead)
		notifications.DELETE("/:id", h.DeleteNotification)
	}
}

// GetNotifications godoc
// @Summary List notifications
// @Description Newest first. Clients polling this endpoint deduplicate by id.
// @Tags notifications
// @Produce json
// @Param user_id query int false "Recipient (own rows plus broadcasts)"
// @Param unread query bool false "Only unread rows"
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	var filter dto.NotificationFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	list, err := h.notificationService.GetNotifications(c.Request.Context(), h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) GetNotification(c *gin.Context) {
	id, ok := h.ResolveID(c, nil)
	if !ok {
		return
	}

	n, err := h.notificationService.GetNotification(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// MarkAsRead sets is_read, true when the body omits it.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	var req dto.MarkReadRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}
	id, ok := h.ResolveID(c, req.ID)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), h.GetDB(c), id, req.Value()); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Notification updated successfully"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	var req dto.MarkAllReadRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	var userID *uint
	if req.UserID != nil {
		v := req.UserID.Uint()
		userID = &v
	} else if raw := c.Query("user_id"); raw != "" {
		v, err := dto.ParseID(raw)
		if err != nil {
			h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid user_id"))
			return
		}
		userID = &v
	}

	updated, err := h.notificationService.MarkAllAsRead(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Success: true, Updated: updated})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := h.ResolveID(c, nil)
	if !ok {
		return
	}

	if err := h.notificationService.DeleteNotification(c.Request.Context(), h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Notification deleted successfully"})
}

// Stream godoc
// @Summary Live notification stream
// @Description Server-sent events, one per new notification. Resumes after Last-Event-ID.
// @Tags notifications
// @Produce text/event-stream
// @Param Last-Event-ID header int false "Last delivered id"
// @Param last_event_id query int false "Last delivered id"
// @Success 200 {string} string "event stream"
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	watermark := lastEventID(c)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	err := h.poller.Run(ctx, h.GetDB(c), watermark, func(n models.Notification) error {
		if err := sse.Encode(c.Writer, sse.Event{
			Id:   strconv.FormatUint(uint64(n.ID), 10),
			Data: n,
		}); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		logger.CtxDebug(ctx, "Notification stream ended by write failure", "error", err.Error())
	}
}

func lastEventID(c *gin.Context) uint {
	raw := strings.TrimSpace(c.GetHeader("Last-Event-ID"))
	if raw == "" {
		raw = c.Query("last_event_id")
	}
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
