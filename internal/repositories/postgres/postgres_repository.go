package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/PrepGrid-2025/testing-service/internal/repositories"
)

// PostgreSQLRepository implements the aggregate Repository interface.
type PostgreSQLRepository struct {
	db *gorm.DB

	test       repositories.TestRepository
	question   repositories.QuestionRepository
	submission repositories.SubmissionRepository
	user       repositories.UserRepository
}

func NewPostgreSQLRepository(db *gorm.DB) repositories.Repository {
	return &PostgreSQLRepository{
		db:         db,
		test:       NewTestPostgreSQL(db),
		question:   NewQuestionPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
		user:       NewUserPostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) Test() repositories.TestRepository             { return r.test }
func (r *PostgreSQLRepository) Question() repositories.QuestionRepository     { return r.question }
func (r *PostgreSQLRepository) Submission() repositories.SubmissionRepository { return r.submission }
func (r *PostgreSQLRepository) User() repositories.UserRepository             { return r.user }

// WithTransaction runs fn against a repository bound to one transaction.
// gorm checks a dedicated connection out of the pool for the duration and
// returns it on both commit and rollback.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPostgreSQLRepository(tx))
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
