package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/models"
)

// Each method takes an explicit *gorm.DB so a service-level transaction can
// be threaded through; pass the base DB handle outside a transaction.

type TestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, test *models.Test) error
	CreateSection(ctx context.Context, tx *gorm.DB, section *models.Section) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Test, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetBySection(ctx context.Context, tx *gorm.DB, sectionID uint) ([]*models.Question, error)
	GetByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Question, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Submission, error)
	GetByTestAndUser(ctx context.Context, tx *gorm.DB, testID, userID uint) ([]*models.Submission, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*models.User, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	UpdateRole(ctx context.Context, tx *gorm.DB, id uint, role models.UserRole) error
}

// Repository aggregates the sub-repositories and transaction support.
type Repository interface {
	Test() TestRepository
	Question() QuestionRepository
	Submission() SubmissionRepository
	User() UserRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
}

// IsNotFoundError reports whether err means the row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
