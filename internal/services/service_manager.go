package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/events"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
)

// DefaultServiceManager wires every service over the shared repository and
// database handle. Handlers only ever see the ServiceManager interface.
type DefaultServiceManager struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher

	auth         AuthService
	test         TestService
	submission   SubmissionService
	importExport ImportExportService
}

func NewDefaultServiceManager(
	db *gorm.DB,
	repo repositories.Repository,
	logger *slog.Logger,
	v *validator.Validator,
	publisher events.EventPublisher,
	adminEmails []string,
) ServiceManager {
	return &DefaultServiceManager{
		repo:         repo,
		logger:       logger,
		publisher:    publisher,
		auth:         NewAuthService(repo, db, logger, adminEmails),
		test:         NewTestService(repo, db, logger, v, publisher),
		submission:   NewSubmissionService(repo, db, logger, v, publisher),
		importExport: NewImportExportService(repo, db, logger),
	}
}

func (m *DefaultServiceManager) Auth() AuthService                 { return m.auth }
func (m *DefaultServiceManager) Test() TestService                 { return m.test }
func (m *DefaultServiceManager) Submission() SubmissionService     { return m.submission }
func (m *DefaultServiceManager) ImportExport() ImportExportService { return m.importExport }

func (m *DefaultServiceManager) Initialize(ctx context.Context) error {
	if err := m.repo.Ping(ctx); err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}
	m.logger.Info("services initialized")
	return nil
}

func (m *DefaultServiceManager) HealthCheck(ctx context.Context) error {
	return m.repo.Ping(ctx)
}

func (m *DefaultServiceManager) Shutdown(ctx context.Context) error {
	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			m.logger.Error("failed to close event publisher", "error", err)
			return err
		}
	}
	m.logger.Info("services shut down")
	return nil
}
