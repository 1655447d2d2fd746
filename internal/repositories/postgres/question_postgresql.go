package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	if err := tx.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) GetBySection(ctx context.Context, tx *gorm.DB, sectionID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := tx.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for section: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) GetByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := tx.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for test: %w", err)
	}
	return questions, nil
}
