package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrepGrid-2025/testing-service/internal/services"
	"github.com/PrepGrid-2025/testing-service/internal/utils"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	validator         *validator.Validator
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		validator:         validator,
	}
}

// Submit records a finished attempt
// @Summary Submit test answers
// @Description Appends the submitted answer set; repeat submissions create new rows
// @Tags submissions
// @Accept json
// @Produce json
// @Param submission body services.SubmissionRequest true "Submission data"
// @Success 201 {object} models.Submission
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /submit [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req services.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, err := GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	submission, err := h.submissionService.Record(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// ListByTest lists every submission recorded for a test
// @Summary List submissions for a test
// @Tags submissions
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {array} models.Submission
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /tests/{id}/submissions [get]
func (h *SubmissionHandler) ListByTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	submissions, err := h.submissionService.ListByTest(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}
