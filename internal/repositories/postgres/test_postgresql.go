package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
)

type TestPostgreSQL struct {
	db *gorm.DB
}

func NewTestPostgreSQL(db *gorm.DB) repositories.TestRepository {
	return &TestPostgreSQL{db: db}
}

func (t *TestPostgreSQL) Create(ctx context.Context, tx *gorm.DB, test *models.Test) error {
	if err := tx.WithContext(ctx).Create(test).Error; err != nil {
		return fmt.Errorf("failed to create test: %w", err)
	}
	return nil
}

func (t *TestPostgreSQL) CreateSection(ctx context.Context, tx *gorm.DB, section *models.Section) error {
	if err := tx.WithContext(ctx).Create(section).Error; err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

func (t *TestPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	var test models.Test
	if err := tx.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// GetByIDWithDetails loads the full nested tree: test, its sections, and each
// section's questions, ordered by primary key so authoring order is kept.
func (t *TestPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	var test models.Test
	err := tx.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.id ASC")
		}).
		Preload("Sections.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id ASC")
		}).
		First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (t *TestPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Test, error) {
	var tests []*models.Test
	if err := tx.WithContext(ctx).Order("created_at DESC").Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, nil
}
