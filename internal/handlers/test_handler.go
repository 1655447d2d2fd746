package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PrepGrid-2025/testing-service/internal/services"
	"github.com/PrepGrid-2025/testing-service/internal/utils"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
)

type TestHandler struct {
	BaseHandler
	testService services.TestService
	validator   *validator.Validator
}

func NewTestHandler(
	testService services.TestService,
	validator *validator.Validator,
	logger utils.Logger,
) *TestHandler {
	return &TestHandler{
		BaseHandler: NewBaseHandler(logger),
		testService: testService,
		validator:   validator,
	}
}

// SaveTest persists a full test tree in one shot
// @Summary Save test
// @Description Saves a test with all sections and questions atomically
// @Tags tests
// @Accept json
// @Produce json
// @Param test body services.TestSaveRequest true "Test data"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /save_test [post]
func (h *TestHandler) SaveTest(c *gin.Context) {
	var req services.TestSaveRequest
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

	testID, err := h.testService.Save(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Test saved successfully",
		Data:    gin.H{"test_id": testID},
	})
}

// CreateTest inserts a bare test with just a title
// @Summary Create test
// @Description Creates an empty test to be filled in later
// @Tags tests
// @Accept json
// @Produce json
// @Param test body services.TestCreateRequest true "Test title"
// @Success 201 {object} models.Test
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /tests [post]
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req services.TestCreateRequest
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

	test, err := h.testService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, test)
}

// ListTests lists all tests without their question trees
// @Summary List tests
// @Tags tests
// @Produce json
// @Success 200 {array} models.Test
// @Failure 401 {object} ErrorResponse
// @Router /tests [get]
func (h *TestHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tests)
}

// GetTest returns one test with sections and questions nested
// @Summary Get test
// @Description Retrieves a test with its sections and questions as one tree
// @Tags tests
// @Produce json
// @Param id path uint true "Test ID"
// @Success 200 {object} models.Test
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id} [get]
func (h *TestHandler) GetTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Getting test", "test_id", id)

	test, err := h.testService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}
