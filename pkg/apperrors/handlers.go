package apperrors

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinErrorHandler renders AppErrors as {"error": message, "code": ..., ...}.
type GinErrorHandler struct {
	Debug bool
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "server error",
			"error", appErr.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, h.Body(appErr))
}

// Body builds the response payload. 5xx messages are always generic.
func (h *GinErrorHandler) Body(appErr *AppError) gin.H {
	body := gin.H{}
	for k, v := range appErr.Fields {
		body[k] = v
	}

	message := appErr.Message
	details := appErr.Details
	if appErr.HTTPCode >= http.StatusInternalServerError && !h.Debug {
		message = "Internal server error"
		details = nil
	}

	body["error"] = message
	body["code"] = appErr.Code
	body["domain"] = appErr.Domain
	if details != nil {
		body["details"] = details
	}
	return body
}

// HandleError - shortcut used by handlers and middleware.
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: false}
	handler.HandleGinError(c, err)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
