package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PrepGrid-2025/testing-service/internal/services"
	"github.com/PrepGrid-2025/testing-service/internal/utils"
)

// ErrorResponse is the uniform error body for every endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse wraps non-entity responses (counts, acknowledgements).
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// parseIDParam parses a positive numeric path parameter. On failure it writes
// the 400 response itself and returns 0, so callers just check for 0.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw + " is not a valid identifier",
		})
		return 0
	}
	return uint(id)
}

// LogRequest logs through the request-scoped logger so the request_id tags
// every line.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.FromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

// handleServiceError maps service sentinel errors onto HTTP statuses. The
// service layer never sees HTTP, handlers never inspect error strings.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient permissions",
		})
	case errors.Is(err, services.ErrTestNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Test not found",
		})
	case errors.Is(err, services.ErrSectionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Section not found",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrSaveFailed):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to save test",
		})
	default:
		utils.FromContext(c.Request.Context(), h.logger).Error("unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
