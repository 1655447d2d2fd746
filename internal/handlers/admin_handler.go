package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PrepGrid-2025/testing-service/internal/services"
	"github.com/PrepGrid-2025/testing-service/internal/utils"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type AdminHandler struct {
	BaseHandler
	testService  services.TestService
	importExport services.ImportExportService
	validator    *validator.Validator
	uploadDir    string
}

func NewAdminHandler(
	testService services.TestService,
	importExport services.ImportExportService,
	validator *validator.Validator,
	uploadDir string,
	logger utils.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  NewBaseHandler(logger),
		testService:  testService,
		importExport: importExport,
		validator:    validator,
		uploadDir:    uploadDir,
	}
}

// UploadImage stores a question image and returns its public path
// @Summary Upload question image
// @Description Saves an uploaded image under the uploads directory with a timestamped name
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /upload [post]
func (h *AdminHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "No file provided",
			Details: err.Error(),
		})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File too large",
		})
		return
	}

	// Timestamp prefix avoids collisions; the base name strips any client
	// supplied directory components.
	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFilename(file.Filename))
	dest := filepath.Join(h.uploadDir, filename)

	if err := c.SaveUploadedFile(file, dest); err != nil {
		h.LogRequest(c, "upload failed", "filename", filename, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to store file",
		})
		return
	}

	h.LogRequest(c, "file uploaded", "filename", filename, "size", file.Size)

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "File uploaded",
		Data: gin.H{
			"filename": filename,
			"url":      "/uploads/" + filename,
		},
	})
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	return strings.ReplaceAll(base, " ", "_")
}

// AddQuestion appends one question to an existing test
// @Summary Add question
// @Description Adds a single question to a test section
// @Tags admin
// @Accept json
// @Produce json
// @Param question body services.QuestionAddRequest true "Question data"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions [post]
func (h *AdminHandler) AddQuestion(c *gin.Context) {
	var req services.QuestionAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.testService.AddQuestion(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ImportQuestions bulk-loads questions from an uploaded workbook
// @Summary Import questions from xlsx
// @Description Parses an .xlsx sheet and inserts every row into one section atomically
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook"
// @Param test_id formData uint true "Test ID"
// @Param section_id formData uint true "Section ID"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tests/import [post]
func (h *AdminHandler) ImportQuestions(c *gin.Context) {
	testID, err := strconv.ParseUint(c.PostForm("test_id"), 10, 32)
	if err != nil || testID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid test_id",
		})
		return
	}
	sectionID, err := strconv.ParseUint(c.PostForm("section_id"), 10, 32)
	if err != nil || sectionID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid section_id",
		})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "No file provided",
			Details: err.Error(),
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unreadable file",
		})
		return
	}
	defer src.Close()

	count, err := h.importExport.ImportQuestions(c.Request.Context(), uint(testID), uint(sectionID), src)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Questions imported",
		Data:    gin.H{"imported": count},
	})
}

// ExportTest streams a test as an xlsx workbook
// @Summary Export test as xlsx
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Test ID"
// @Success 200
// @Failure 404 {object} ErrorResponse
// @Router /tests/{id}/export [get]
func (h *AdminHandler) ExportTest(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	f, err := h.importExport.ExportTest(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="test-%d.xlsx"`, id))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		h.LogRequest(c, "export write failed", "test_id", id, "error", err)
	}
}
