package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/models"
)

// GormStore keeps sessions in the auto-migrated sessions table. Expired rows
// are treated as absent on read and reaped by Cleanup.
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewGormStore(db *gorm.DB, ttl time.Duration) *GormStore {
	return &GormStore{db: db, ttl: ttl}
}

func (s *GormStore) Create(ctx context.Context, userID uint) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Expired(time.Now()) {
		// Lazy reap; Cleanup catches whatever reads never touch.
		_ = s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Cleanup removes all expired sessions. Intended to run periodically from a
// background goroutine.
func (s *GormStore) Cleanup(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
