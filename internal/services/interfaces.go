package services

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
)

// ===== REQUEST DTOs =====

// Request DTOs live in the validator package so their rules sit next to them.
type TestSaveRequest = validator.TestSaveRequest
type SectionSaveRequest = validator.SectionSaveRequest
type QuestionSaveRequest = validator.QuestionSaveRequest
type TestCreateRequest = validator.TestCreateRequest
type QuestionAddRequest = validator.QuestionAddRequest
type SubmissionRequest = validator.SubmissionRequest

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// CompleteLogin turns a verified provider profile into the local user,
	// deriving the role from the allowlist and upserting the user row.
	CompleteLogin(ctx context.Context, profile *models.ExternalProfile) (*models.User, error)

	// GetUser re-reads a user row; the authorization guard calls this on
	// every request so the role is never trusted from the session.
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type TestService interface {
	// Save commits the whole nested test atomically and returns the new id.
	Save(ctx context.Context, req *TestSaveRequest, creatorID uint) (uint, error)

	// Create inserts a bare test with just a title.
	Create(ctx context.Context, req *TestCreateRequest, creatorID uint) (*models.Test, error)

	// AddQuestion appends a single question to an existing test/section.
	AddQuestion(ctx context.Context, req *QuestionAddRequest) (*models.Question, error)

	// GetByID returns the test with sections and questions as one tree.
	GetByID(ctx context.Context, id uint) (*models.Test, error)

	List(ctx context.Context) ([]*models.Test, error)
}

type SubmissionService interface {
	// Record appends the answer set; it never merges with prior submissions.
	Record(ctx context.Context, req *SubmissionRequest, userID uint) (*models.Submission, error)

	ListByTest(ctx context.Context, testID uint) ([]*models.Submission, error)
}

type ImportExportService interface {
	// ImportQuestions bulk-loads questions from an .xlsx sheet into one
	// section, atomically, and returns how many were inserted.
	ImportQuestions(ctx context.Context, testID, sectionID uint, r io.Reader) (int, error)

	// ExportTest renders the full test as an .xlsx workbook.
	ExportTest(ctx context.Context, testID uint) (*excelize.File, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Test() TestService
	Submission() SubmissionService
	ImportExport() ImportExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
