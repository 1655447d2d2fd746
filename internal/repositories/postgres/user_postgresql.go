package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := tx.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*models.User, error) {
	var user models.User
	err := tx.WithContext(ctx).Where("external_id = ?", externalID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateRole only ever touches the role column; profile fields stay as they
// were captured at first login.
func (u *UserPostgreSQL) UpdateRole(ctx context.Context, tx *gorm.DB, id uint, role models.UserRole) error {
	err := tx.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role).Error
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return nil
}
