package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	allowlist map[string]struct{}
}

// NewAuthService builds the authentication service. adminEmails is the
// injected allowlist; membership is the only way to hold the admin role.
func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, adminEmails []string) AuthService {
	allowlist := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		allowlist[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}

	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		allowlist: allowlist,
	}
}

// CompleteLogin upserts the user row for the external profile. The role is
// recomputed from the allowlist on every login, in both directions: an email
// added to the list promotes on next login, one removed demotes. Any
// persistence error aborts the login; the caller must not establish a
// session in that case.
func (s *authService) CompleteLogin(ctx context.Context, profile *models.ExternalProfile) (*models.User, error) {
	if profile == nil || profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: incomplete provider profile", ErrAuthenticationFailed)
	}

	role := s.roleFor(profile.Email)

	user, err := s.repo.User().GetByExternalID(ctx, s.db, profile.ID)
	if err == nil {
		if user.Role != role {
			if err := s.repo.User().UpdateRole(ctx, s.db, user.ID, role); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
			}
			s.logger.Info("user role updated from allowlist",
				"user_id", user.ID, "old_role", user.Role, "new_role", role)
			user.Role = role
		}
		return user, nil
	}

	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	// First login: create the local record.
	user = &models.User{
		ExternalID: profile.ID,
		FullName:   profile.DisplayName,
		Email:      profile.Email,
		Role:       role,
	}
	if profile.AvatarURL != "" {
		avatarURL := profile.AvatarURL
		user.AvatarURL = &avatarURL
	}

	if err := s.repo.User().Create(ctx, s.db, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	s.logger.Info("user created on first login", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) roleFor(email string) models.UserRole {
	if _, ok := s.allowlist[strings.ToLower(email)]; ok {
		return models.RoleAdmin
	}
	return models.RoleStudent
}
