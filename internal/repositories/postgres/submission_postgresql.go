package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

// Create appends one submission row. There is no upsert: a second submission
// for the same (test, user) is a second row.
func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	if err := tx.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (s *SubmissionPostgreSQL) GetByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := tx.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions for test: %w", err)
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) GetByTestAndUser(ctx context.Context, tx *gorm.DB, testID, userID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := tx.WithContext(ctx).
		Where("test_id = ? AND user_id = ?", testID, userID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions for user: %w", err)
	}
	return submissions, nil
}
