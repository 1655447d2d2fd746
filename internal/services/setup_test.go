package services

import (
	"log/slog"
	"os"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PrepGrid-2025/testing-service/internal/events"
	"github.com/PrepGrid-2025/testing-service/internal/models"
	"github.com/PrepGrid-2025/testing-service/internal/repositories"
	"github.com/PrepGrid-2025/testing-service/internal/repositories/postgres"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
)

// testEnv carries the shared fixtures for service tests: an in-memory
// database with the full schema, the repository over it, and a mock
// publisher to observe domain events.
type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher *events.MockEventPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Test{},
		&models.Section{},
		&models.Question{},
		&models.Submission{},
		&models.Session{},
	); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return &testEnv{
		db:        db,
		repo:      postgres.NewPostgreSQLRepository(db),
		logger:    logger,
		validator: validator.New(),
		publisher: events.NewMockEventPublisher(logger),
	}
}

func (e *testEnv) testService() TestService {
	return NewTestService(e.repo, e.db, e.logger, e.validator, e.publisher)
}

func (e *testEnv) submissionService() SubmissionService {
	return NewSubmissionService(e.repo, e.db, e.logger, e.validator, e.publisher)
}

func (e *testEnv) authService(adminEmails []string) AuthService {
	return NewAuthService(e.repo, e.db, e.logger, adminEmails)
}
